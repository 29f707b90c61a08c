package commands

import (
	"context"
	"time"

	"fastpick/internal/pkg/errs"

	"github.com/google/uuid"
)

// TerminalState remembers a coupon that can never issue again.
type TerminalState struct {
	Kind  errs.Kind
	EndAt time.Time
}

// TerminalMarker caches terminal coupons outside the database. Implementations must
// tolerate being unavailable: a failed lookup is treated as a miss.
type TerminalMarker interface {
	Lookup(ctx context.Context, couponID uuid.UUID) (*TerminalState, error)
	Mark(ctx context.Context, couponID uuid.UUID, state TerminalState) error
	// Forget drops whatever marker the coupon has.
	Forget(ctx context.Context, couponID uuid.UUID) error
}

type IssueMetrics interface {
	ObserveIssue(outcome string, elapsed time.Duration)
	ObserveMarkerHit(kind errs.Kind)
}

type NopMarker struct{}

func (NopMarker) Lookup(context.Context, uuid.UUID) (*TerminalState, error) { return nil, nil }
func (NopMarker) Mark(context.Context, uuid.UUID, TerminalState) error      { return nil }
func (NopMarker) Forget(context.Context, uuid.UUID) error                   { return nil }

type NopMetrics struct{}

func (NopMetrics) ObserveIssue(string, time.Duration) {}
func (NopMetrics) ObserveMarkerHit(errs.Kind)         {}
