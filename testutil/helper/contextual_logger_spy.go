package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

// ContextualLogRecord is one recorded call of a ContextualLoggerSpy.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// ContextualLoggerSpy captures ledger.ContextualLogger calls together with the context they were made with.
type ContextualLoggerSpy struct {
	records []ContextualLogRecord
	mu      sync.Mutex
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, ContextualLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

// GetRecords returns a copy of all recorded calls.
func (s *ContextualLoggerSpy) GetRecords() []ContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]ContextualLogRecord(nil), s.records...)
}

// HasLog reports whether a call with the given level and message was recorded.
func (s *ContextualLoggerSpy) HasLog(level string, message string) bool {
	for _, record := range s.GetRecords() {
		if record.Level == level && record.Message == message {
			return true
		}
	}

	return false
}

var _ ledger.ContextualLogger = (*ContextualLoggerSpy)(nil)
