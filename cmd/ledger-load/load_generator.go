// Package main implements a load generator running random ledger transitions against the PostgreSQL journal
// from concurrent workers, retrying transitions which lose an optimistic concurrency race.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
)

const (
	opDeposit = iota
	opWithdraw
	opCreateClaim
	opRevokeClaim
	opTransferClaim
	numOperations
)

var operationNames = [numOperations]string{"deposit", "withdraw", "create_claim", "revoke_claim", "transfer_claim"}

var rejections = []error{
	ledger.ErrInvalidAmount,
	ledger.ErrNoSuchOwner,
	ledger.ErrInsufficientFunds,
	ledger.ErrOverflow,
	ledger.ErrClaimAlreadyExists,
	ledger.ErrNotOwner,
	ledger.ErrSameOwnerTransfer,
	ledger.ErrDestinationAlreadyOwnsClaim,
}

// Summary counts the outcomes of a load run.
type Summary struct {
	Succeeded int64
	Rejected  int64
	Conflicts int64
	Retries   int64
	Failed    int64
}

// Total returns the number of executed operations.
func (s Summary) Total() int64 {
	return s.Succeeded + s.Rejected + s.Conflicts + s.Failed
}

// LoadGenerator runs random transitions for a fixed set of accounts.
type LoadGenerator struct {
	handler  journal.CommandHandler
	accounts []ledger.AccountID
	config   Config
	logger   *slog.Logger
	seed     uint64

	succeeded atomic.Int64
	rejected  atomic.Int64
	conflicts atomic.Int64
	retries   atomic.Int64
	failed    atomic.Int64
}

// NewLoadGenerator creates a LoadGenerator with config.Accounts fresh account IDs.
func NewLoadGenerator(handler journal.CommandHandler, config Config, logger *slog.Logger) *LoadGenerator {
	accounts := make([]ledger.AccountID, config.Accounts)
	for i := range accounts {
		accounts[i] = ledger.BuildAccountID(uuid.New())
	}

	return &LoadGenerator{
		handler:  handler,
		accounts: accounts,
		config:   config,
		logger:   logger,
		seed:     config.Seed,
	}
}

// Accounts returns the accounts the generator operates on.
func (g *LoadGenerator) Accounts() []ledger.AccountID {
	return g.accounts
}

// Run executes config.Operations transitions spread over config.Workers workers.
// It stops early when ctx is canceled.
func (g *LoadGenerator) Run(ctx context.Context) Summary {
	var wg sync.WaitGroup

	for worker := range g.config.Workers {
		operations := g.config.Operations / g.config.Workers
		if worker < g.config.Operations%g.config.Workers {
			operations++
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			g.work(ctx, rand.New(rand.NewPCG(g.seed, uint64(worker))), operations)
		}()
	}

	wg.Wait()

	return Summary{
		Succeeded: g.succeeded.Load(),
		Rejected:  g.rejected.Load(),
		Conflicts: g.conflicts.Load(),
		Retries:   g.retries.Load(),
		Failed:    g.failed.Load(),
	}
}

func (g *LoadGenerator) work(ctx context.Context, rnd *rand.Rand, operations int) {
	for range operations {
		if ctx.Err() != nil {
			return
		}

		op := rnd.IntN(numOperations)
		from := g.accounts[rnd.IntN(len(g.accounts))]
		to := g.accounts[rnd.IntN(len(g.accounts))]
		amount := ledger.Balance(rnd.Uint64N(uint64(g.config.MaxAmount)) + 1)

		g.record(op, g.executeWithRetry(ctx, op, from, to, amount))
	}
}

func (g *LoadGenerator) executeWithRetry(
	ctx context.Context,
	op int,
	from ledger.AccountID,
	to ledger.AccountID,
	amount ledger.Balance,
) error {

	var err error
	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.retries.Add(1)
		}

		err = g.execute(ctx, op, from, to, amount)
		if !errors.Is(err, journal.ErrConcurrencyConflict) {
			return err
		}
	}

	return err
}

func (g *LoadGenerator) execute(
	ctx context.Context,
	op int,
	from ledger.AccountID,
	to ledger.AccountID,
	amount ledger.Balance,
) error {

	switch op {
	case opDeposit:
		_, err := g.handler.Deposit(ctx, from, amount)
		return err
	case opWithdraw:
		_, err := g.handler.Withdraw(ctx, from, amount)
		return err
	case opCreateClaim:
		chassisNum := uint32(amount)
		_, err := g.handler.CreateClaim(ctx, from, &chassisNum, []byte("toyota"), &chassisNum)
		return err
	case opRevokeClaim:
		_, err := g.handler.RevokeClaim(ctx, from)
		return err
	case opTransferClaim:
		return g.handler.TransferClaim(ctx, from, to)
	default:
		return fmt.Errorf("unknown operation %d", op)
	}
}

func (g *LoadGenerator) record(op int, err error) {
	switch {
	case err == nil:
		g.succeeded.Add(1)
	case isRejection(err):
		g.rejected.Add(1)
	case errors.Is(err, journal.ErrConcurrencyConflict):
		g.conflicts.Add(1)
		g.logger.Warn("retries exhausted", "operation", operationNames[op])
	default:
		g.failed.Add(1)
		g.logger.Error("operation failed", "operation", operationNames[op], "error", err.Error())
	}
}

func isRejection(err error) bool {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return true
		}
	}

	return false
}
