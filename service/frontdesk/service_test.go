package frontdesk

import (
	"context"
	"testing"
	"time"

	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/policy"
	snapshotmem "github.com/maitred/maitred/service/dao/snapshot/memory"
	"github.com/maitred/maitred/service/floor"
	"github.com/maitred/maitred/service/messaging/memory"
	"github.com/stretchr/testify/assert"
)

type harness struct {
	floor     *floor.Floor
	queue     *memory.Rendezvous[model.Request]
	snapshots *snapshotmem.Service
	service   *Service
	done      chan error
}

func newHarness(t *testing.T, groups, tables int, options ...Option) *harness {
	t.Helper()
	f, err := floor.New(groups, tables)
	assert.NoError(t, err)
	queue := memory.NewRendezvous[model.Request]()
	snapshots := snapshotmem.New()

	options = append([]Option{
		WithFloor(f),
		WithQueue(queue),
		WithSnapshotDAO(snapshots),
	}, options...)
	service, err := New(options...)
	assert.NoError(t, err)
	return &harness{floor: f, queue: queue, snapshots: snapshots, service: service, done: make(chan error, 1)}
}

func (h *harness) start(ctx context.Context) {
	go func() {
		h.done <- h.service.Start(ctx)
	}()
}

func (h *harness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("receptionist did not finish")
		return nil
	}
}

func TestService_ImmediateSeating(t *testing.T) {
	h := newHarness(t, 3, 2, WithRequests(2))
	ctx := context.Background()
	h.start(ctx)

	err := h.queue.Publish(ctx, &model.Request{Kind: model.TableRequest, Group: 0})
	assert.NoError(t, err)
	assert.Equal(t, model.TableID(0), h.floor.Assignment(0))

	table, err := h.floor.AwaitTable(ctx, 0)
	assert.NoError(t, err)
	assert.Equal(t, model.TableID(0), table)

	err = h.queue.Publish(ctx, &model.Request{Kind: model.BillRequest, Group: 0})
	assert.NoError(t, err)
	assert.Equal(t, model.GroupDone, h.floor.Phase(0))
	assert.Len(t, h.floor.FreeTables(), 2)
	assert.NoError(t, h.floor.AwaitTurnover(ctx, 0))

	assert.NoError(t, h.wait(t))

	snapshots, err := h.snapshots.List(ctx)
	assert.NoError(t, err)
	phases := make([]model.ReceptionistPhase, 0, len(snapshots))
	for _, snapshot := range snapshots {
		phases = append(phases, snapshot.Phase)
	}
	assert.Equal(t, []model.ReceptionistPhase{
		model.PhaseAwaitingRequest,
		model.PhaseAssigningTable,
		model.PhaseAwaitingRequest,
		model.PhaseReceivingPayment,
	}, phases)
}

func TestService_WaitingRoomPromotion(t *testing.T) {
	h := newHarness(t, 2, 1, WithRequests(3))
	ctx := context.Background()
	h.start(ctx)

	assert.NoError(t, h.queue.Publish(ctx, &model.Request{Kind: model.TableRequest, Group: 0}))
	assert.NoError(t, h.queue.Publish(ctx, &model.Request{Kind: model.TableRequest, Group: 1}))
	assert.Equal(t, model.GroupWaiting, h.floor.Phase(1))
	assert.Equal(t, 1, h.floor.Waiting())

	assert.NoError(t, h.queue.Publish(ctx, &model.Request{Kind: model.BillRequest, Group: 0}))
	assert.NoError(t, h.wait(t))

	// The vacated table transferred to the waiting group atomically.
	assert.Equal(t, model.TableID(0), h.floor.Assignment(1))
	assert.Equal(t, model.GroupAtTable, h.floor.Phase(1))
	assert.Equal(t, 0, h.floor.Waiting())

	table, err := h.floor.AwaitTable(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, model.TableID(0), table)
}

func TestService_BillWithoutTableAborts(t *testing.T) {
	h := newHarness(t, 2, 1)
	ctx := context.Background()
	h.start(ctx)

	err := h.queue.Publish(ctx, &model.Request{Kind: model.BillRequest, Group: 0})
	assert.ErrorIs(t, err, floor.ErrNoTableHeld)
	assert.ErrorIs(t, h.wait(t), floor.ErrNoTableHeld)
}

func TestService_UnknownRequestKind(t *testing.T) {
	h := newHarness(t, 1, 1)
	ctx := context.Background()
	h.start(ctx)

	err := h.queue.Publish(ctx, &model.Request{Kind: "espresso", Group: 0})
	assert.ErrorIs(t, err, ErrUnknownRequest)
	assert.ErrorIs(t, h.wait(t), ErrUnknownRequest)
}

func TestService_PolicyFromContext(t *testing.T) {
	h := newHarness(t, 3, 1, WithRequests(4))
	fifo, err := policy.WaitSelectionFor(policy.WaitFirstArrived)
	assert.NoError(t, err)
	ctx := policy.WithPolicy(context.Background(), &policy.Policy{
		Waiting: fifo,
		Seating: policy.LowestFree,
	})
	h.start(ctx)

	assert.NoError(t, h.queue.Publish(ctx, &model.Request{Kind: model.TableRequest, Group: 0}))
	// Group 2 arrives before group 1; first-arrived must win the table.
	assert.NoError(t, h.queue.Publish(ctx, &model.Request{Kind: model.TableRequest, Group: 2}))
	assert.NoError(t, h.queue.Publish(ctx, &model.Request{Kind: model.TableRequest, Group: 1}))
	assert.NoError(t, h.queue.Publish(ctx, &model.Request{Kind: model.BillRequest, Group: 0}))
	assert.NoError(t, h.wait(t))

	assert.Equal(t, model.TableID(0), h.floor.Assignment(2))
	assert.Equal(t, model.GroupWaiting, h.floor.Phase(1))
}

func TestService_ShutdownInterruptsLoop(t *testing.T) {
	h := newHarness(t, 2, 1)
	h.start(context.Background())
	h.service.Shutdown()
	assert.ErrorIs(t, h.wait(t), context.Canceled)
}

func TestNew_Validation(t *testing.T) {
	f, err := floor.New(1, 1)
	assert.NoError(t, err)
	queue := memory.NewRendezvous[model.Request]()

	_, err = New(WithQueue(queue), WithSnapshotDAO(snapshotmem.New()))
	assert.Error(t, err)

	_, err = New(WithFloor(f), WithSnapshotDAO(snapshotmem.New()))
	assert.Error(t, err)

	_, err = New(WithFloor(f), WithQueue(queue))
	assert.Error(t, err)

	service, err := New(WithFloor(f), WithQueue(queue), WithSnapshotDAO(snapshotmem.New()))
	assert.NoError(t, err)
	assert.Equal(t, 2, service.config.Requests)
}
