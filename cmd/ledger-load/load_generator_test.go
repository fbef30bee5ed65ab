package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
	"github.com/AntonStoeckl/account-state-ledger-go/testutil/helper"
)

func givenConfig() Config {
	return Config{
		Accounts:   5,
		Workers:    4,
		Operations: 200,
		MaxAmount:  50,
		MaxRetries: 10,
		Seed:       42,
	}
}

func Test_LoadGenerator_Run_KeepsTheJournalConsistent(t *testing.T) {
	// arrange
	ctx := context.Background()
	handler, err := journal.NewCommandHandler(journal.NewMemoryEventStore())
	require.NoError(t, err, "error in arranging test data")
	logHandler := helper.NewLogHandlerSpy(false)
	generator := NewLoadGenerator(handler, givenConfig(), slog.New(logHandler))

	// act
	summary := generator.Run(ctx)

	// assert
	assert.Equal(t, int64(200), summary.Total())
	assert.Zero(t, summary.Failed)
	assert.Positive(t, summary.Succeeded)

	for _, account := range generator.Accounts() {
		claim, owns, err := handler.ClaimOf(ctx, account)
		require.NoError(t, err)

		if owns {
			assert.Equal(t, account, claim.Owner, "a claim is always keyed by its owner")
		}
	}
}

func Test_LoadGenerator_Run_StopsOnCanceledContext(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handler, err := journal.NewCommandHandler(journal.NewMemoryEventStore())
	require.NoError(t, err, "error in arranging test data")

	// act
	summary := NewLoadGenerator(handler, givenConfig(), slog.New(helper.NewLogHandlerSpy(false))).Run(ctx)

	// assert
	assert.Zero(t, summary.Total())
}

func Test_ParseFlags(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "defaults", args: nil},
		{name: "explicit values", args: []string{"-adapter", "sqlx", "-workers", "8", "-seed", "7"}},
		{name: "too few accounts", args: []string{"-accounts", "1"}, wantErr: true},
		{name: "no workers", args: []string{"-workers", "0"}, wantErr: true},
		{name: "zero max amount", args: []string{"-max-amount", "0"}, wantErr: true},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			cfg, err := parseFlags(tc.args)

			// assert
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, cfg.DSN)
		})
	}
}
