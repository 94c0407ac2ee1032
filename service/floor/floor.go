package floor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/maitred/maitred/internal/clock"
	"github.com/maitred/maitred/internal/idgen"
	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/policy"
)

// Protocol violations surface as sentinel errors so callers can abort
// loudly instead of corrupting shared state.
var (
	// ErrNoTableHeld is returned when a group settles its bill while holding
	// no table.
	ErrNoTableHeld = errors.New("floor: group holds no table")

	// ErrGroupSeated is returned when a seated or finished group requests a
	// table again.
	ErrGroupSeated = errors.New("floor: group already seated or done")

	// ErrBadGroup is returned for out-of-range group ids.
	ErrBadGroup = errors.New("floor: group id out of range")

	// ErrSignalPending indicates a second wake was attempted while the first
	// one was still undelivered.
	ErrSignalPending = errors.New("floor: signal already pending")
)

// Floor is the shared allocation state. All mutation happens under a single
// mutex; wake and turnover channels carry the cross-unit notifications.
type Floor struct {
	mu          sync.Mutex
	assignments []model.TableID    // per group: held table or NoTable
	occupants   []model.GroupID    // per table: occupant or NoGroup
	phases      []model.GroupPhase // receptionist's private view
	waiting     int
	arrivals    []model.GroupID // waiting groups in arrival order

	// wake carries "proceed to table" per group; capacity 1 so a wake intent
	// is signalled at most once.
	wake []chan model.TableID
	// turnover notifies the table-cleanup role; sized for a full run so the
	// receptionist never blocks on a slow busser.
	turnover []chan model.TableID
}

// New creates a floor with the given number of groups and tables. All
// groups start in the ToArrive phase and every table is free.
func New(groups, tables int) (*Floor, error) {
	if groups <= 0 {
		return nil, fmt.Errorf("groups must be > 0")
	}
	if tables <= 0 {
		return nil, fmt.Errorf("tables must be > 0")
	}
	f := &Floor{
		assignments: make([]model.TableID, groups),
		occupants:   make([]model.GroupID, tables),
		phases:      make([]model.GroupPhase, groups),
		wake:        make([]chan model.TableID, groups),
		turnover:    make([]chan model.TableID, tables),
	}
	for g := range f.assignments {
		f.assignments[g] = model.NoTable
		f.phases[g] = model.GroupToArrive
		f.wake[g] = make(chan model.TableID, 1)
	}
	for t := range f.occupants {
		f.occupants[t] = model.NoGroup
		f.turnover[t] = make(chan model.TableID, groups)
	}
	return f, nil
}

// Groups returns the number of groups.
func (f *Floor) Groups() int { return len(f.assignments) }

// Tables returns the number of tables.
func (f *Floor) Tables() int { return len(f.occupants) }

// Allocate decides seating for a table request. When the selector yields a
// table the group is seated and woken; otherwise it enters the waiting
// room. The whole decision is atomic with respect to any other floor
// operation.
func (f *Floor) Allocate(group model.GroupID, selector policy.TableSelection) (model.TableID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkGroupLocked(group); err != nil {
		return model.NoTable, err
	}
	if f.assignments[group] != model.NoTable || f.phases[group] == model.GroupDone {
		return model.NoTable, fmt.Errorf("%w: group %d", ErrGroupSeated, group)
	}

	table := selector(f.freeTablesLocked())
	if table == model.NoTable {
		f.phases[group] = model.GroupWaiting
		f.waiting++
		f.arrivals = append(f.arrivals, group)
		return model.NoTable, f.verifyLocked()
	}

	f.seatLocked(group, table)
	if err := f.wakeLocked(group, table); err != nil {
		return model.NoTable, err
	}
	return table, f.verifyLocked()
}

// Settle releases the table held by group and, when the wait queue is not
// empty, transfers it to the group picked by the selector, waking that
// group. It returns the vacated table and the promoted group (NoGroup when
// nobody was waiting). Settling without a held table is a protocol
// violation.
func (f *Floor) Settle(group model.GroupID, selector policy.WaitSelection) (model.TableID, model.GroupID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkGroupLocked(group); err != nil {
		return model.NoTable, model.NoGroup, err
	}
	table := f.assignments[group]
	if table == model.NoTable {
		return model.NoTable, model.NoGroup, fmt.Errorf("%w: group %d", ErrNoTableHeld, group)
	}

	f.assignments[group] = model.NoTable
	f.occupants[table] = model.NoGroup
	f.phases[group] = model.GroupDone

	promoted := model.NoGroup
	if f.waiting > 0 {
		promoted = selector(f.waitingGroupsLocked(), append([]model.GroupID(nil), f.arrivals...))
	}
	if promoted != model.NoGroup {
		f.waiting--
		f.removeArrivalLocked(promoted)
		f.seatLocked(promoted, table)
		if err := f.wakeLocked(promoted, table); err != nil {
			return model.NoTable, model.NoGroup, err
		}
	}
	return table, promoted, f.verifyLocked()
}

// SignalTurnover notifies the cleanup role that table was vacated. It must
// be called outside any floor operation, after Settle returned the table.
func (f *Floor) SignalTurnover(table model.TableID) error {
	if int(table) < 0 || int(table) >= len(f.turnover) {
		return fmt.Errorf("floor: table id out of range: %d", table)
	}
	select {
	case f.turnover[table] <- table:
		return nil
	default:
		return fmt.Errorf("%w: turnover for table %d", ErrSignalPending, table)
	}
}

// AwaitTable blocks the calling group until the receptionist grants it a
// table. There is deliberately no timeout; context cancellation is the only
// way out.
func (f *Floor) AwaitTable(ctx context.Context, group model.GroupID) (model.TableID, error) {
	if int(group) < 0 || int(group) >= len(f.wake) {
		return model.NoTable, fmt.Errorf("%w: %d", ErrBadGroup, group)
	}
	select {
	case table := <-f.wake[group]:
		return table, nil
	case <-ctx.Done():
		return model.NoTable, ctx.Err()
	}
}

// AwaitTurnover blocks until table is vacated. Like AwaitTable it has no
// timeout path.
func (f *Floor) AwaitTurnover(ctx context.Context, table model.TableID) error {
	if int(table) < 0 || int(table) >= len(f.turnover) {
		return fmt.Errorf("floor: table id out of range: %d", table)
	}
	select {
	case <-f.turnover[table]:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot captures the current state under the lock.
func (f *Floor) Snapshot(phase model.ReceptionistPhase, seq int) *model.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return &model.Snapshot{
		ID:          idgen.New(),
		Seq:         seq,
		Phase:       phase,
		Assignments: append([]model.TableID(nil), f.assignments...),
		Phases:      append([]model.GroupPhase(nil), f.phases...),
		Waiting:     f.waiting,
		CreatedAt:   clock.Now(),
	}
}

// Assignment returns the table held by group, or NoTable.
func (f *Floor) Assignment(group model.GroupID) model.TableID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(group) < 0 || int(group) >= len(f.assignments) {
		return model.NoTable
	}
	return f.assignments[group]
}

// Phase returns the receptionist's view of the group's phase.
func (f *Floor) Phase(group model.GroupID) model.GroupPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(group) < 0 || int(group) >= len(f.phases) {
		return ""
	}
	return f.phases[group]
}

// Waiting returns the waiting-room counter.
func (f *Floor) Waiting() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waiting
}

// FreeTables returns the currently free tables in ascending order.
func (f *Floor) FreeTables() []model.TableID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.freeTablesLocked()
}

func (f *Floor) seatLocked(group model.GroupID, table model.TableID) {
	f.assignments[group] = table
	f.occupants[table] = group
	f.phases[group] = model.GroupAtTable
}

func (f *Floor) wakeLocked(group model.GroupID, table model.TableID) error {
	select {
	case f.wake[group] <- table:
		return nil
	default:
		return fmt.Errorf("%w: wake for group %d", ErrSignalPending, group)
	}
}

func (f *Floor) freeTablesLocked() []model.TableID {
	free := make([]model.TableID, 0, len(f.occupants))
	for t, occupant := range f.occupants {
		if occupant == model.NoGroup {
			free = append(free, model.TableID(t))
		}
	}
	return free
}

func (f *Floor) waitingGroupsLocked() []model.GroupID {
	out := make([]model.GroupID, 0, f.waiting)
	for g, phase := range f.phases {
		if phase == model.GroupWaiting {
			out = append(out, model.GroupID(g))
		}
	}
	return out
}

func (f *Floor) removeArrivalLocked(group model.GroupID) {
	for i, g := range f.arrivals {
		if g == group {
			f.arrivals = append(f.arrivals[:i], f.arrivals[i+1:]...)
			return
		}
	}
}

func (f *Floor) checkGroupLocked(group model.GroupID) error {
	if int(group) < 0 || int(group) >= len(f.assignments) {
		return fmt.Errorf("%w: %d", ErrBadGroup, group)
	}
	return nil
}

// verifyLocked traps state corruption: a table with two occupants or a
// waiting counter that disagrees with the phases would otherwise propagate
// silently through later decisions.
func (f *Floor) verifyLocked() error {
	seen := make(map[model.TableID]model.GroupID, len(f.occupants))
	for g, table := range f.assignments {
		if table == model.NoTable {
			continue
		}
		if prev, ok := seen[table]; ok {
			return fmt.Errorf("floor: table %d assigned to groups %d and %d", table, prev, g)
		}
		seen[table] = model.GroupID(g)
		if f.occupants[table] != model.GroupID(g) {
			return fmt.Errorf("floor: occupancy record out of sync for table %d", table)
		}
	}
	waiting := 0
	for _, phase := range f.phases {
		if phase == model.GroupWaiting {
			waiting++
		}
	}
	if waiting != f.waiting {
		return fmt.Errorf("floor: waiting counter %d but %d groups waiting", f.waiting, waiting)
	}
	return nil
}
