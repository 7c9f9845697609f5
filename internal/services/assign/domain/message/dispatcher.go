package message

import (
	"context"
	"errors"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/platform/requestctx"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/perm"
	"github.com/Bram-Hub/assign/internal/services/assign/storage"
)

const tracerName = "github.com/Bram-Hub/assign/internal/services/assign/domain/message"

// Dispatcher owns the fixed processing pipeline for every message variant:
// validate, authorize, execute. Individual variants cannot skip or reorder
// the checks, and authorization always uses the permission the message
// itself declares.
type Dispatcher struct {
	store  storage.TxBeginner
	oracle perm.Oracle
	logf   func(format string, args ...any)
	tracer trace.Tracer
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogf overrides the dispatcher's log function.
func WithLogf(logf func(format string, args ...any)) DispatcherOption {
	return func(d *Dispatcher) {
		if logf != nil {
			d.logf = logf
		}
	}
}

// NewDispatcher creates a dispatcher over the given store and oracle.
func NewDispatcher(store storage.TxBeginner, oracle perm.Oracle, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		oracle: oracle,
		logf:   log.Printf,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Dispatch runs one message through the pipeline and returns its outcome.
//
// The store is never touched unless validation and authorization both
// passed. Execution runs inside a single transaction: committed on success,
// rolled back whole on any failure. Store faults — including cancellation
// and timeouts reported by the store — are logged here and downgraded to
// STORE_FAILURE so backend detail never crosses the protocol boundary.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message, principal perm.Principal) Outcome {
	if msg == nil {
		return Failure(apperrors.CodeInvalidRequest)
	}

	ctx, span := d.tracer.Start(ctx, "assign.dispatch",
		trace.WithAttributes(
			attribute.String("message.type", string(msg.Type())),
			attribute.Int64("principal.id", principal.ID),
		),
	)
	defer span.End()

	outcome := d.process(ctx, msg, principal)
	span.SetAttributes(attribute.String("outcome.code", string(outcome.Code)))
	return outcome
}

func (d *Dispatcher) process(ctx context.Context, msg Message, principal perm.Principal) Outcome {
	if err := msg.Validate(); err != nil {
		return validationOutcome(err)
	}

	if d.oracle == nil || !d.oracle.HasPermission(principal, msg.RequiredPermission()) {
		return Failure(apperrors.CodeUnauthorized)
	}

	if d.store == nil {
		d.logf("dispatch %s: store is not configured", msg.Type())
		return Failure(apperrors.CodeStoreFailure)
	}
	txn, err := d.store.BeginTx(ctx)
	if err != nil {
		d.logf("dispatch %s: begin tx: %v", msg.Type(), err)
		return Failure(apperrors.CodeStoreFailure)
	}

	if err := msg.Execute(ctx, txn, principal); err != nil {
		if rbErr := txn.Rollback(); rbErr != nil {
			d.logf("dispatch %s: rollback: %v", msg.Type(), rbErr)
		}
		return d.executeOutcome(ctx, msg, err)
	}

	if err := txn.Commit(); err != nil {
		d.logf("dispatch %s: commit: %v", msg.Type(), err)
		return Outcome{Code: apperrors.CodeStoreFailure, err: err}
	}
	return OK()
}

// validationOutcome maps a Validate error onto the outcome vocabulary,
// preserving variant-specific validation codes.
func validationOutcome(err error) Outcome {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return Outcome{Code: appErr.Code, Metadata: appErr.Metadata, err: err}
	}
	return Outcome{Code: apperrors.CodeInvalidRequest, err: err}
}

// executeOutcome maps an Execute error onto the outcome vocabulary. Domain
// outcomes (NOT_FOUND, ALREADY_EXISTS, and friends) pass through; everything
// else is a store fault that is logged and downgraded.
func (d *Dispatcher) executeOutcome(ctx context.Context, msg Message, err error) Outcome {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Code != apperrors.CodeStoreFailure {
		return Outcome{Code: appErr.Code, Metadata: appErr.Metadata, err: err}
	}
	if errors.Is(err, storage.ErrNotFound) {
		return Outcome{Code: apperrors.CodeNotFound, err: err}
	}
	if errors.Is(err, storage.ErrAlreadyExists) {
		return Outcome{Code: apperrors.CodeAlreadyExists, err: err}
	}
	if username := requestctx.UsernameFromContext(ctx); username != "" {
		d.logf("dispatch %s by %s: execute: %v", msg.Type(), username, err)
	} else {
		d.logf("dispatch %s: execute: %v", msg.Type(), err)
	}
	return Outcome{Code: apperrors.CodeStoreFailure, err: err}
}
