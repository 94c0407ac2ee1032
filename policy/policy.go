package policy

import (
	"context"
	"fmt"

	"github.com/maitred/maitred/model"
)

// Policy names recognised in configuration.
const (
	WaitLowestID     = "lowestID"
	WaitFirstArrived = "fifo"
	SeatLowestFree   = "lowestFree"
)

// WaitSelection picks the waiting group that receives a vacated table.
// byID lists the waiting groups in ascending id order, byArrival in the
// order they entered the waiting room.  Both slices describe the same set;
// the selection returns model.NoGroup when the set is empty.
type WaitSelection func(byID, byArrival []model.GroupID) model.GroupID

// TableSelection picks a table among the currently free ones, or
// model.NoTable to send the group to the waiting room.
type TableSelection func(free []model.TableID) model.TableID

// LowestID resolves the wait queue in favour of the lowest group id,
// regardless of arrival order.  This is deliberately coarse: a group with a
// small id that arrived last still wins over earlier arrivals.
func LowestID(byID, _ []model.GroupID) model.GroupID {
	if len(byID) == 0 {
		return model.NoGroup
	}
	return byID[0]
}

// FirstArrived resolves the wait queue in true FIFO order.
func FirstArrived(_, byArrival []model.GroupID) model.GroupID {
	if len(byArrival) == 0 {
		return model.NoGroup
	}
	return byArrival[0]
}

// LowestFree seats a group at the lowest-numbered free table.  With the
// reference two-table configuration this reproduces the observed behaviour
// exactly: both tables free seats at table 0, one free seats at that table,
// none free sends the group to the waiting room.
func LowestFree(free []model.TableID) model.TableID {
	if len(free) == 0 {
		return model.NoTable
	}
	return free[0]
}

// Policy bundles the decision points used by the front desk. The zero value
// is not usable; call Default or resolve the fields individually.
type Policy struct {
	Waiting WaitSelection
	Seating TableSelection
}

// Default returns the reference policy set: lowest-id wait resolution and
// lowest-free seating.
func Default() *Policy {
	return &Policy{Waiting: LowestID, Seating: LowestFree}
}

// WaitSelectionFor maps a configured policy name onto its implementation.
func WaitSelectionFor(name string) (WaitSelection, error) {
	switch name {
	case "", WaitLowestID:
		return LowestID, nil
	case WaitFirstArrived:
		return FirstArrived, nil
	}
	return nil, fmt.Errorf("unknown wait policy: %q", name)
}

// TableSelectionFor maps a configured policy name onto its implementation.
func TableSelectionFor(name string) (TableSelection, error) {
	switch name {
	case "", SeatLowestFree:
		return LowestFree, nil
	}
	return nil, fmt.Errorf("unknown seating policy: %q", name)
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds the policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy from ctx, or nil when absent.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
