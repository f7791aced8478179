// Package observability abstracts APM tracing so that background tracking
// sessions can be traced without depending on the agent directly.
package observability

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Tracer provides an abstraction for APM tracing
type Tracer interface {
	StartTransaction(ctx context.Context, name string) (context.Context, Transaction)
	StartSegment(ctx context.Context, name string) func()
}

// Transaction represents a traced unit of work
type Transaction interface {
	End()
	NoticeError(error)
	AddAttribute(key string, value interface{})
}

// NoOpTracer is used when New Relic is disabled
type NoOpTracer struct{}

type noOpTransaction struct{}

// NewNoOpTracer creates a new no-operation tracer
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// StartTransaction returns ctx unchanged and a transaction that records nothing
func (t *NoOpTracer) StartTransaction(ctx context.Context, name string) (context.Context, Transaction) {
	return ctx, noOpTransaction{}
}

// StartSegment returns a no-op end func
func (t *NoOpTracer) StartSegment(ctx context.Context, name string) func() {
	return func() {}
}

func (noOpTransaction) End()                                       {}
func (noOpTransaction) NoticeError(error)                          {}
func (noOpTransaction) AddAttribute(key string, value interface{}) {}

// NewRelicTracer implements Tracer using New Relic
type NewRelicTracer struct {
	app *newrelic.Application
}

// NewNewRelicTracer creates a new New Relic tracer
func NewNewRelicTracer(app *newrelic.Application) *NewRelicTracer {
	return &NewRelicTracer{app: app}
}

// StartTransaction starts a background transaction and stores it in the returned context
func (t *NewRelicTracer) StartTransaction(ctx context.Context, name string) (context.Context, Transaction) {
	txn := t.app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), &newRelicTransaction{txn: txn}
}

// StartSegment times name within the transaction carried by ctx, if any
func (t *NewRelicTracer) StartSegment(ctx context.Context, name string) func() {
	if txn := newrelic.FromContext(ctx); txn != nil {
		return txn.StartSegment(name).End
	}
	return func() {}
}

type newRelicTransaction struct {
	txn *newrelic.Transaction
}

func (t *newRelicTransaction) End() {
	t.txn.End()
}

func (t *newRelicTransaction) NoticeError(err error) {
	if err != nil {
		t.txn.NoticeError(err)
	}
}

func (t *newRelicTransaction) AddAttribute(key string, value interface{}) {
	t.txn.AddAttribute(key, value)
}

// New picks the New Relic tracer when an application is configured
func New(nrApp *newrelic.Application) Tracer {
	if nrApp != nil {
		return NewNewRelicTracer(nrApp)
	}
	return NewNoOpTracer()
}

// Segment names used by the tracker
const (
	SegmentResync    = "Tracker/resync"
	SegmentPoll      = "Tracker/poll"
	SegmentReconnect = "Tracker/reconnect"
	SegmentDatastore = "Datastore/status_diagnostics"
)
