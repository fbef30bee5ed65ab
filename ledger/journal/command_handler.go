package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/balanceledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/claimregistry"
)

// EventStore defines the interface needed by the CommandHandler for event store operations.
type EventStore interface {
	Query(ctx context.Context, filter Filter) (StorableEvents, MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter Filter,
		expectedMaxSequenceNumber MaxSequenceNumberUint,
		event StorableEvent,
		additionalEvents ...StorableEvent,
	) error
}

// CommandHandler runs the ledger transitions durably: Query -> Project -> Transition -> Append.
//
// It does not retry. An ErrConcurrencyConflict means another writer appended to the history of one of the
// involved accounts between the query and the append, nothing was written, and the caller decides whether
// to re-submit.
type CommandHandler struct {
	eventStore EventStore
	clock      func() time.Time
	logger     ledger.Logger
	metrics    ledger.MetricsCollector
}

// Option configures a CommandHandler.
type Option func(*CommandHandler) error

// WithClock sets the clock used to stamp emitted events.
func WithClock(clock func() time.Time) Option {
	return func(h *CommandHandler) error {
		if clock == nil {
			return ledger.ErrNilClock
		}

		h.clock = clock

		return nil
	}
}

// WithLogger sets the logger handed to the transitions.
func WithLogger(logger ledger.Logger) Option {
	return func(h *CommandHandler) error {
		if logger == nil {
			return ledger.ErrNilLogger
		}

		h.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector handed to the transitions.
func WithMetrics(collector ledger.MetricsCollector) Option {
	return func(h *CommandHandler) error {
		if collector == nil {
			return ledger.ErrNilMetricsCollector
		}

		h.metrics = collector

		return nil
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore EventStore, options ...Option) (CommandHandler, error) {
	if eventStore == nil {
		return CommandHandler{}, ErrNilEventStore
	}

	h := CommandHandler{
		eventStore: eventStore,
		clock:      time.Now,
	}

	for _, option := range options {
		if err := option(&h); err != nil {
			return CommandHandler{}, err
		}
	}

	return h, nil
}

// Deposit credits amount to who. See balanceledger.BalanceLedger.Deposit.
func (h CommandHandler) Deposit(ctx context.Context, who ledger.AccountID, amount ledger.Balance) (ledger.Balance, error) {
	filter := BalanceFilter(who)

	balances, maxSequenceNumber, err := h.queryBalances(ctx, filter)
	if err != nil {
		return 0, err
	}

	l, err := h.balanceLedger(balances)
	if err != nil {
		return 0, err
	}

	newBalance, events, err := l.Deposit(who, amount)
	if err != nil {
		return 0, err
	}

	if err = h.append(ctx, filter, maxSequenceNumber, events); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// Withdraw debits amount from who. See balanceledger.BalanceLedger.Withdraw.
func (h CommandHandler) Withdraw(ctx context.Context, who ledger.AccountID, amount ledger.Balance) (ledger.Balance, error) {
	filter := BalanceFilter(who)

	balances, maxSequenceNumber, err := h.queryBalances(ctx, filter)
	if err != nil {
		return 0, err
	}

	l, err := h.balanceLedger(balances)
	if err != nil {
		return 0, err
	}

	newBalance, events, err := l.Withdraw(who, amount)
	if err != nil {
		return 0, err
	}

	if err = h.append(ctx, filter, maxSequenceNumber, events); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// BalanceOf reads the balance of who from its recorded history.
// Pass a context built with WithEventualConsistency to allow reading from a replica.
func (h CommandHandler) BalanceOf(ctx context.Context, who ledger.AccountID) (ledger.Balance, error) {
	storableEvents, _, err := h.eventStore.Query(ctx, BalanceFilter(who))
	if err != nil {
		return 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return 0, err
	}

	balance, _ := ProjectBalances(history).Get(who)

	return balance, nil
}

// CreateClaim registers a new claim owned by owner. See claimregistry.ClaimRegistry.Create.
func (h CommandHandler) CreateClaim(
	ctx context.Context,
	owner ledger.AccountID,
	chassisNum *uint32,
	brandName []byte,
	price *uint32,
) (ledger.Claim, error) {

	filter := ClaimFilter(owner)

	r, maxSequenceNumber, err := h.claimRegistry(ctx, filter)
	if err != nil {
		return ledger.Claim{}, err
	}

	claim, events, err := r.Create(owner, chassisNum, brandName, price)
	if err != nil {
		return ledger.Claim{}, err
	}

	if err = h.append(ctx, filter, maxSequenceNumber, events); err != nil {
		return ledger.Claim{}, err
	}

	return claim, nil
}

// RevokeClaim removes the claim held by caller. See claimregistry.ClaimRegistry.Revoke.
func (h CommandHandler) RevokeClaim(ctx context.Context, caller ledger.AccountID) (ledger.Claim, error) {
	filter := ClaimFilter(caller)

	r, maxSequenceNumber, err := h.claimRegistry(ctx, filter)
	if err != nil {
		return ledger.Claim{}, err
	}

	claim, events, err := r.Revoke(caller)
	if err != nil {
		return ledger.Claim{}, err
	}

	if err = h.append(ctx, filter, maxSequenceNumber, events); err != nil {
		return ledger.Claim{}, err
	}

	return claim, nil
}

// TransferClaim moves the claim held by from to the account to. See claimregistry.ClaimRegistry.Transfer.
// The history of both accounts guards the append.
func (h CommandHandler) TransferClaim(ctx context.Context, from ledger.AccountID, to ledger.AccountID) error {
	filter := ClaimFilter(from, to)

	r, maxSequenceNumber, err := h.claimRegistry(ctx, filter)
	if err != nil {
		return err
	}

	events, err := r.Transfer(from, to)
	if err != nil {
		return err
	}

	return h.append(ctx, filter, maxSequenceNumber, events)
}

// ClaimOf reads the claim held by id from its recorded history.
func (h CommandHandler) ClaimOf(ctx context.Context, id ledger.AccountID) (ledger.Claim, bool, error) {
	storableEvents, _, err := h.eventStore.Query(ctx, ClaimFilter(id))
	if err != nil {
		return ledger.Claim{}, false, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return ledger.Claim{}, false, err
	}

	claim, ok := ProjectClaims(history).Get(id)

	return claim, ok, nil
}

func (h CommandHandler) queryBalances(ctx context.Context, filter Filter) (
	*ledger.MemoryStore[ledger.Balance],
	MaxSequenceNumberUint,
	error,
) {

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(WithStrongConsistency(ctx), filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return ProjectBalances(history), maxSequenceNumber, nil
}

func (h CommandHandler) balanceLedger(store ledger.AccountStore[ledger.Balance]) (*balanceledger.BalanceLedger, error) {
	options := []balanceledger.Option{balanceledger.WithClock(h.clock)}

	if h.logger != nil {
		options = append(options, balanceledger.WithLogger(h.logger))
	}

	if h.metrics != nil {
		options = append(options, balanceledger.WithMetrics(h.metrics))
	}

	return balanceledger.New(store, options...)
}

func (h CommandHandler) claimRegistry(ctx context.Context, filter Filter) (
	*claimregistry.ClaimRegistry,
	MaxSequenceNumberUint,
	error,
) {

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(WithStrongConsistency(ctx), filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	options := []claimregistry.Option{claimregistry.WithClock(h.clock)}

	if h.logger != nil {
		options = append(options, claimregistry.WithLogger(h.logger))
	}

	if h.metrics != nil {
		options = append(options, claimregistry.WithMetrics(h.metrics))
	}

	r, err := claimregistry.New(ProjectClaims(history), options...)
	if err != nil {
		return nil, 0, err
	}

	return r, maxSequenceNumber, nil
}

func (h CommandHandler) append(
	ctx context.Context,
	filter Filter,
	expectedMaxSequenceNumber MaxSequenceNumberUint,
	events ledger.DomainEvents,
) error {

	uid := uuid.New()
	eventMetadata := BuildEventMetadata(uid, uid, uid)

	storableEvents, err := StorableEventsFrom(events, eventMetadata)
	if err != nil {
		return err
	}

	if len(storableEvents) == 0 {
		return ErrNoEventsToAppend
	}

	return h.eventStore.Append(
		WithStrongConsistency(ctx),
		filter,
		expectedMaxSequenceNumber,
		storableEvents[0],
		storableEvents[1:]...,
	)
}
