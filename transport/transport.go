// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package transport sends serialized Babel requests to a remote service and
// turns the replies back into values or errors. Calls can block or return a
// Future; both modes share the same retry policy and report the same
// Start, Failure and Complete events.
package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/juju/loggo"

	"github.com/luxfi/babel/model"
)

var logger = loggo.GetLogger("babel.transport")

// Transport is implemented by every Babel transport. Implementations must
// be safe for concurrent use.
type Transport interface {
	// GetResponse sends req to method and returns the reply decoded as t.
	GetResponse(ctx context.Context, method string, req any, t *model.Type, headers http.Header) (any, error)
	// Send sends req to method and discards any reply body.
	Send(ctx context.Context, method string, req any, headers http.Header) error
	// GetResponseAsync is the non-blocking form of GetResponse.
	GetResponseAsync(ctx context.Context, method string, req any, t *model.Type, headers http.Header) *Future
	// SendAsync is the non-blocking form of Send.
	SendAsync(ctx context.Context, method string, req any, headers http.Header) *Future

	// RetryPolicy returns how many extra attempts a retryable failure gets
	// and the pause before each.
	RetryPolicy() (count int, delay time.Duration)
	SetRetryPolicy(count int, delay time.Duration)

	OnStart(h Handler)
	OnComplete(h Handler)
	OnFailure(h Handler)
}

// Stage identifies the point of a call an Event reports.
type Stage int

const (
	StageStart Stage = iota
	StageComplete
	StageFailure
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "Start"
	case StageComplete:
		return "Complete"
	case StageFailure:
		return "Failure"
	}
	return "Unknown"
}

// Event describes one step of a call. Start is reported once before the
// first attempt, Failure after every failed attempt, and Complete after the
// successful one.
type Event struct {
	Stage  Stage
	CallID string
	URL    string
	Method string
	// Attempt is zero for Start and counts from one afterwards.
	Attempt         int
	Request         []byte
	Response        []byte
	RequestHeaders  http.Header
	ResponseHeaders http.Header
	// Status is the HTTP status line, such as "503 Service Unavailable".
	Status     string
	StatusCode int
	// Duration is the time taken by the attempt.
	Duration time.Duration
	// Err is the error the attempt would be reported with. It is only set
	// for Failure.
	Err error
}

// Milliseconds returns the duration of the attempt in milliseconds.
func (e *Event) Milliseconds() int64 {
	return e.Duration.Milliseconds()
}

// Handler observes call events. Handlers run synchronously at each stage of
// a call, in the order they were added. For non-blocking calls that is not
// the goroutine that started the call.
type Handler func(*Event)

// Observers keeps the event handlers of a transport.
type Observers struct {
	mu       sync.RWMutex
	start    []Handler
	complete []Handler
	failure  []Handler
}

func (o *Observers) OnStart(h Handler)    { o.add(&o.start, h) }
func (o *Observers) OnComplete(h Handler) { o.add(&o.complete, h) }
func (o *Observers) OnFailure(h Handler)  { o.add(&o.failure, h) }

func (o *Observers) add(list *[]Handler, h Handler) {
	if h == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	*list = append(*list, h)
}

// Fire passes a copy of e to every handler registered for its stage.
func (o *Observers) Fire(e Event) {
	o.mu.RLock()
	var handlers []Handler
	switch e.Stage {
	case StageStart:
		handlers = o.start
	case StageComplete:
		handlers = o.complete
	case StageFailure:
		handlers = o.failure
	}
	o.mu.RUnlock()
	for _, h := range handlers {
		ev := e
		h(&ev)
	}
}
