// Package observe contains the logging and metrics plumbing shared by all transition families.
package observe

import (
	"errors"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

const (
	MetricTransitions          = "ledger_transitions_total"
	MetricTransitionRejections = "ledger_transition_rejections_total"
	MetricBalance              = "ledger_balance"

	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	StatusSuccess = "success"
	StatusError   = "error"

	LogAttrAccountID   = "account_id"
	LogAttrToAccountID = "to_account_id"
	LogAttrAmount      = "amount"
	LogAttrBalance     = "balance"
	LogAttrError       = "error"
	LogAttrOperation   = "operation"

	logMsgOperation          = "ledger operation: "
	logMsgTransitionRejected = "transition rejected"
	logMsgStoreContract      = "account store contract violated"
)

// Observer reports the outcome of transitions to an optional logger and metrics collector.
// A zero Observer is valid and reports nothing.
type Observer struct {
	Logger  ledger.Logger
	Metrics ledger.MetricsCollector
}

// Succeeded logs and counts a successful transition.
func (o Observer) Succeeded(operation string, args ...any) {
	if o.Logger != nil {
		o.Logger.Info(logMsgOperation+operation, args...)
	}

	if o.Metrics != nil {
		o.Metrics.IncrementCounter(MetricTransitions, map[string]string{
			LabelOperation: operation,
			LabelStatus:    StatusSuccess,
		})
	}
}

// Rejected logs and counts a transition which failed a precondition.
// A violated store contract (ErrMissingKey) is logged at error level, business rejections at info level.
func (o Observer) Rejected(operation string, err error, args ...any) {
	if o.Logger != nil {
		allArgs := []any{LogAttrOperation, operation, LogAttrError, err.Error()}
		allArgs = append(allArgs, args...)

		if errors.Is(err, ledger.ErrMissingKey) {
			o.Logger.Error(logMsgStoreContract, allArgs...)
		} else {
			o.Logger.Info(logMsgTransitionRejected, allArgs...)
		}
	}

	if o.Metrics != nil {
		o.Metrics.IncrementCounter(MetricTransitions, map[string]string{
			LabelOperation: operation,
			LabelStatus:    StatusError,
		})
		o.Metrics.IncrementCounter(MetricTransitionRejections, map[string]string{
			LabelOperation: operation,
			LabelErrorType: ErrorType(err),
		})
	}
}

// BalanceChanged records the resulting balance of a balance transition.
func (o Observer) BalanceChanged(operation string, balance ledger.Balance) {
	if o.Metrics != nil {
		o.Metrics.RecordValue(MetricBalance, float64(balance), map[string]string{LabelOperation: operation})
	}
}

// ErrorType maps an error to a stable, low-cardinality metrics label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ledger.ErrMissingKey):
		return "missing_key"
	case errors.Is(err, ledger.ErrImbalanceMismatch):
		return "imbalance_mismatch"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ledger.ErrNoSuchOwner):
		return "no_such_owner"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ledger.ErrOverflow):
		return "overflow"
	case errors.Is(err, ledger.ErrClaimAlreadyExists):
		return "claim_already_exists"
	case errors.Is(err, ledger.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ledger.ErrSameOwnerTransfer):
		return "same_owner_transfer"
	case errors.Is(err, ledger.ErrDestinationAlreadyOwnsClaim):
		return "destination_already_owns_claim"
	default:
		return "other"
	}
}
