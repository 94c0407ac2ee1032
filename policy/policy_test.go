package policy

import (
	"testing"

	"github.com/maitred/maitred/model"
	"github.com/stretchr/testify/assert"
)

func TestWaitSelection(t *testing.T) {
	testCases := []struct {
		name      string
		selection WaitSelection
		byID      []model.GroupID
		byArrival []model.GroupID
		expect    model.GroupID
	}{
		{
			name:      "lowest id wins over arrival order",
			selection: LowestID,
			byID:      []model.GroupID{1, 4},
			byArrival: []model.GroupID{4, 1},
			expect:    1,
		},
		{
			name:      "lowest id with empty queue",
			selection: LowestID,
			expect:    model.NoGroup,
		},
		{
			name:      "fifo follows arrival order",
			selection: FirstArrived,
			byID:      []model.GroupID{1, 4},
			byArrival: []model.GroupID{4, 1},
			expect:    4,
		},
		{
			name:      "fifo with empty queue",
			selection: FirstArrived,
			expect:    model.NoGroup,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.selection(tc.byID, tc.byArrival))
		})
	}
}

func TestLowestFree(t *testing.T) {
	assert.Equal(t, model.TableID(0), LowestFree([]model.TableID{0, 1}))
	assert.Equal(t, model.TableID(1), LowestFree([]model.TableID{1}))
	assert.Equal(t, model.NoTable, LowestFree(nil))
}

func TestSelectionFor(t *testing.T) {
	_, err := WaitSelectionFor("fifo")
	assert.NoError(t, err)
	_, err = WaitSelectionFor("")
	assert.NoError(t, err)
	_, err = WaitSelectionFor("random")
	assert.Error(t, err)

	_, err = TableSelectionFor("lowestFree")
	assert.NoError(t, err)
	_, err = TableSelectionFor("roundRobin")
	assert.Error(t, err)
}

func TestContextHelpers(t *testing.T) {
	assert.Nil(t, FromContext(nil))
	p := Default()
	ctx := WithPolicy(nil, p)
	assert.Same(t, p, FromContext(ctx))
}
