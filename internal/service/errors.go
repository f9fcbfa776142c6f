package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkozhevin/retail_orders/internal/events"
	"github.com/mkozhevin/retail_orders/internal/logging"
)

var (
	ErrValidation = errors.New("validation")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrUpstream   = errors.New("upstream")
)

// Error carries the client-facing message next to its sentinel so
// handlers can build the response envelope without parsing error text.
// Details holds per-item diagnostics (per-shop delivery failures,
// password policy violations).
type Error struct {
	Kind    error
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Details)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func Errf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Envelope returns what goes into the response "Errors" field.
func (e *Error) Envelope() any {
	if len(e.Details) > 0 {
		return e.Details
	}
	return e.Message
}

const requiredFieldsMsg = "Не указаны все необходимые аргументы"

func errMissingFields() *Error {
	return Errf(ErrValidation, requiredFieldsMsg)
}

// publish pushes an event without letting transport trouble reach the
// caller: errors are logged and swallowed, and the request context's
// cancellation is detached so an already-answered request still gets
// its notification enqueued.
func publish(ctx context.Context, p events.Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	l := logging.FromContext(ctx)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.Publish(pubCtx, topic, key, event); err != nil {
		l.Error("event publish error", "topic", topic, "error", err)
	}
}
