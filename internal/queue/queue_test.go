package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftforge/draftorch/internal/domain"
)

func TestQueue_DrainIfFull_RequiresExactlyTen(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 9; i++ {
		q.Join(Entry{Identity: domain.Identity("p" + string(rune('0'+i)))})
	}
	_, ok := q.DrainIfFull()
	assert.False(t, ok)
	assert.Equal(t, 9, q.Len())

	q.Join(Entry{Identity: "p9"})
	entries, ok := q.DrainIfFull()
	require.True(t, ok)
	assert.Len(t, entries, 10)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Join_IsCaseInsensitiveByIdentity(t *testing.T) {
	q := NewQueue()
	q.Join(Entry{Identity: "Player#NA1", PrimaryLane: domain.LaneTop})
	q.Join(Entry{Identity: "PLAYER#NA1", PrimaryLane: domain.LaneJungle})

	assert.Equal(t, 1, q.Len())
	snap := q.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, domain.LaneJungle, snap[0].PrimaryLane)
}

func TestQueue_Leave_RemovesWithoutAffectingOthersOrder(t *testing.T) {
	q := NewQueue()
	q.Join(Entry{Identity: "a#NA1"})
	q.Join(Entry{Identity: "b#NA1"})
	q.Join(Entry{Identity: "c#NA1"})

	q.Leave("b#NA1")

	snap := q.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, domain.Identity("a#NA1"), snap[0].Identity)
	assert.Equal(t, domain.Identity("c#NA1"), snap[1].Identity)
}

func TestQueue_Leave_OfAbsentPlayerIsNoop(t *testing.T) {
	q := NewQueue()
	q.Join(Entry{Identity: "a#NA1"})
	q.Leave("nobody#NA1")
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Snapshot_PreservesJoinOrder(t *testing.T) {
	q := NewQueue()
	ids := []domain.Identity{"a#NA1", "b#NA1", "c#NA1", "d#NA1"}
	for _, id := range ids {
		q.Join(Entry{Identity: id})
	}
	snap := q.Snapshot()
	require.Len(t, snap, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, snap[i].Identity)
	}
}
