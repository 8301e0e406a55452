package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/hookshot/internal/adapter"
	"github.com/gyaneshwarpardhi/hookshot/internal/config"
	"github.com/gyaneshwarpardhi/hookshot/internal/event"
	"github.com/gyaneshwarpardhi/hookshot/internal/logging"
	"github.com/gyaneshwarpardhi/hookshot/internal/metrics"
	"github.com/gyaneshwarpardhi/hookshot/internal/sink"
)

var (
	ErrQueueFull = errors.New("payload queue full")
	ErrTimeout   = errors.New("payload processing timeout")
)

// stageAbandoned labels payloads whose caller stopped waiting before delivery.
const stageAbandoned = "abandoned"

// Result is the outcome of converting a single payload.
type Result struct {
	ReceiptID  string           `json:"receipt_id"`
	Vendor     string           `json:"vendor"`
	Schema     string           `json:"schema,omitempty"`
	DurationMs float64          `json:"duration_ms"`
	Events     []event.RawEvent `json:"events,omitempty"`
	Errors     []string         `json:"errors,omitempty"`
	SinkError  string           `json:"sink_error,omitempty"`
}

// OK reports whether the payload produced events.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Delivered reports whether the events reached the sink.
func (r *Result) Delivered() bool { return r.OK() && r.SinkError == "" }

// Engine runs payloads through their vendor adapter on a worker pool and
// hands the produced events to a sink.
type Engine struct {
	registry atomic.Pointer[adapter.Registry]
	sink     sink.Sink
	pool     *workerPool[*payloadWork]
	conf     config.EngineConf
	timeout  atomic.Int64 // milliseconds
}

// Job states. A sync job moves from pending to exactly one of claimed (the
// worker is delivering it) or abandoned (the caller gave up first).
const (
	jobPending int32 = iota
	jobClaimed
	jobAbandoned
)

type payloadWork struct {
	ctx       context.Context // nil for async jobs
	vendor    string
	receiptID string
	payload   event.CollectorPayload
	resultC   chan *Result
	state     atomic.Int32
}

// New creates an Engine using conf and starts its worker pool.
func New(ctx context.Context, reg *adapter.Registry, s sink.Sink, conf config.EngineConf) *Engine {
	e := &Engine{sink: s, conf: conf}
	e.registry.Store(reg)
	e.timeout.Store(int64(conf.TimeoutMs))
	e.pool = newWorkerPool[*payloadWork](ctx, conf.Workers, conf.QueueDepth, func(ctx context.Context, w *payloadWork) {
		res := e.process(ctx, w)
		if w.resultC != nil {
			w.resultC <- res
		}
	})
	return e
}

// SwapRegistry atomically replaces the adapter registry (used on hot-reload).
func (e *Engine) SwapRegistry(r *adapter.Registry) {
	e.registry.Store(r)
}

// Settings returns the engine settings currently in effect.
func (e *Engine) Settings() config.EngineConf {
	conf := e.conf
	conf.TimeoutMs = int(e.timeout.Load())
	return conf
}

// Reconfigure applies conf to the running engine. The sync timeout takes
// effect immediately; the names of changed settings that only apply after a
// restart are returned.
func (e *Engine) Reconfigure(conf config.EngineConf) (restart []string) {
	e.timeout.Store(int64(conf.TimeoutMs))
	if conf.Workers != e.conf.Workers {
		restart = append(restart, "workers")
	}
	if conf.QueueDepth != e.conf.QueueDepth {
		restart = append(restart, "queue_depth")
	}
	return restart
}

// Lookup returns the adapter currently serving vendor.
func (e *Engine) Lookup(vendor string) (*adapter.Adapter, error) {
	return e.registry.Load().Get(vendor)
}

// Vendors lists the vendor paths currently served.
func (e *Engine) Vendors() []string {
	return e.registry.Load().Paths()
}

// ProcessSync converts a payload and waits for the result.
// It fails with ErrQueueFull when no worker slot is free and ErrTimeout when
// the configured timeout elapses first. A payload that times out before its
// events reach the sink is never delivered.
func (e *Engine) ProcessSync(ctx context.Context, vendor, receiptID string, p event.CollectorPayload) (*Result, error) {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultC := make(chan *Result, 1)
	w := &payloadWork{ctx: jobCtx, vendor: vendor, receiptID: receiptID, payload: p, resultC: resultC}

	if !e.pool.Submit(w) {
		metrics.PayloadsDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.conf.QueueDepth)
	}

	timeout := time.Duration(e.timeout.Load()) * time.Millisecond
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var stopErr error
	select {
	case res := <-resultC:
		if !res.Delivered() && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return res, nil
	case <-timer.C:
		stopErr = fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case <-ctx.Done():
		stopErr = ctx.Err()
	}

	cancel()
	if w.state.CompareAndSwap(jobPending, jobAbandoned) {
		return nil, stopErr
	}
	// Delivery already started with jobCtx, which is now cancelled. Report
	// the outcome the sink settled on.
	res := <-resultC
	if !res.Delivered() {
		return nil, stopErr
	}
	return res, nil
}

// ProcessAsync enqueues a payload for background conversion. Returns false if the queue is full.
func (e *Engine) ProcessAsync(vendor, receiptID string, p event.CollectorPayload) bool {
	w := &payloadWork{vendor: vendor, receiptID: receiptID, payload: p}
	if !e.pool.Submit(w) {
		metrics.PayloadsDropped.Inc()
		return false
	}
	return true
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

func (e *Engine) process(ctx context.Context, w *payloadWork) *Result {
	if w.ctx != nil {
		ctx = w.ctx
	}
	start := time.Now()
	res := &Result{ReceiptID: w.receiptID, Vendor: w.vendor}
	defer func() {
		res.DurationMs = float64(time.Since(start).Microseconds()) / 1000
		metrics.PayloadProcessingDuration.Observe(res.DurationMs)
	}()

	a, err := e.Lookup(w.vendor)
	if err != nil {
		res.Errors = []string{err.Error()}
		metrics.PayloadsFailed.WithLabelValues(w.vendor, "route").Inc()
		return res
	}
	metrics.PayloadsReceived.WithLabelValues(w.vendor).Inc()

	events, key, err := a.Convert(w.payload)
	if err != nil {
		stage := adapter.StageInternal
		var f *adapter.Failure
		if errors.As(err, &f) {
			stage = f.Stage
			res.Errors = f.Messages
		} else {
			res.Errors = []string{err.Error()}
		}
		metrics.PayloadsFailed.WithLabelValues(w.vendor, string(stage)).Inc()
		slog.LogAttrs(ctx, slog.LevelWarn, "payload rejected",
			logging.Vendor(w.vendor), logging.ReceiptID(w.receiptID), logging.Stage(string(stage)), logging.Error(err))
		return res
	}
	res.Schema = key.URI()

	if !w.state.CompareAndSwap(jobPending, jobClaimed) {
		res.Errors = []string{fmt.Sprintf("payload %s abandoned before delivery", w.receiptID)}
		metrics.PayloadsFailed.WithLabelValues(w.vendor, stageAbandoned).Inc()
		slog.LogAttrs(ctx, slog.LevelWarn, "payload abandoned",
			logging.Vendor(w.vendor), logging.ReceiptID(w.receiptID), logging.Schema(res.Schema))
		return res
	}

	if err := e.sink.Emit(ctx, w.vendor, w.receiptID, events); err != nil {
		res.SinkError = err.Error()
		metrics.SinkErrors.WithLabelValues(w.vendor).Inc()
		slog.LogAttrs(ctx, slog.LevelError, "sink rejected events",
			logging.Vendor(w.vendor), logging.ReceiptID(w.receiptID), logging.Schema(res.Schema), logging.Error(err))
		return res
	}
	res.Events = events
	metrics.EventsEmitted.WithLabelValues(w.vendor, res.Schema).Add(float64(len(events)))
	return res
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}
