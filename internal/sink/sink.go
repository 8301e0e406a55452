// Package sink receives the raw events produced by the engine.
package sink

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gyaneshwarpardhi/hookshot/internal/event"
	"github.com/gyaneshwarpardhi/hookshot/internal/logging"
)

// Sink accepts the events converted from one payload. Implementations must
// not deliver anything once ctx is done.
type Sink interface {
	Emit(ctx context.Context, vendor, receiptID string, events []event.RawEvent) error
}

// Log writes one structured record per event.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Log sink. A nil logger uses slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Emit implements Sink.
func (l *Log) Emit(ctx context.Context, vendor, receiptID string, events []event.RawEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, ev := range events {
		l.logger.LogAttrs(ctx, slog.LevelInfo, "raw event",
			logging.Vendor(vendor),
			logging.ReceiptID(receiptID),
			slog.String("event", ev.Parameters["e"]),
			slog.String("platform", ev.Parameters["p"]),
			slog.Int("parameters", len(ev.Parameters)),
		)
	}
	return nil
}

// Record is one Emit call captured by Memory.
type Record struct {
	Vendor    string
	ReceiptID string
	Events    []event.RawEvent
}

// Memory keeps every emitted batch in memory.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory { return &Memory{} }

// Emit implements Sink.
func (m *Memory) Emit(ctx context.Context, vendor, receiptID string, events []event.RawEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, Record{Vendor: vendor, ReceiptID: receiptID, Events: events})
	return nil
}

// Records returns a copy of the captured batches.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}
