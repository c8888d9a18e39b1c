package election

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_IsStale(t *testing.T) {
	base := time.Unix(1000, 0)
	co := Coordinator{NodeID: "A", Freshness: base}

	assert.False(t, co.IsStale(base.Add(15*time.Second), 15*time.Second))
	assert.True(t, co.IsStale(base.Add(15*time.Second+time.Nanosecond), 15*time.Second))
}

func TestCoordinators_ReplaceAndRemove(t *testing.T) {
	c := NewCoordinators()
	now := time.Unix(1000, 0)
	timeout := 15 * time.Second

	assert.Equal(t, StateNoCoordinator, c.State("r", now, timeout))
	require.True(t, c.ReplaceIfStale("r", Coordinator{NodeID: "A", Freshness: now}, now, timeout))
	assert.Equal(t, StateFresh, c.State("r", now, timeout))

	// 新鲜时不替换，也不移除
	assert.False(t, c.ReplaceIfStale("r", Coordinator{NodeID: "B", Freshness: now}, now, timeout))
	assert.False(t, c.RemoveIfStale("r", now, timeout))

	later := now.Add(time.Minute)
	assert.Equal(t, StateStale, c.State("r", later, timeout))
	assert.True(t, c.RemoveIfStale("r", later, timeout))
	_, ok := c.Get("r")
	assert.False(t, ok)
	assert.False(t, c.RemoveIfStale("r", later, timeout))
}

func TestCoordinators_Touch(t *testing.T) {
	c := NewCoordinators()
	now := time.Unix(1000, 0)
	c.ReplaceIfStale("r", Coordinator{NodeID: "A", Freshness: now}, now, time.Second)

	later := now.Add(10 * time.Second)
	assert.False(t, c.Touch("r", "B", later), "other node does not refresh")
	co, _ := c.Get("r")
	assert.Equal(t, now, co.Freshness)

	assert.True(t, c.Touch("r", "A", later))
	co, _ = c.Get("r")
	assert.Equal(t, later, co.Freshness)

	assert.False(t, c.Touch("missing", "A", later))
}

func TestCoordinators_SnapshotIsCopy(t *testing.T) {
	c := NewCoordinators()
	now := time.Unix(1000, 0)
	c.ReplaceIfStale("r", Coordinator{NodeID: "A", Freshness: now}, now, time.Second)

	snap := c.Snapshot()
	delete(snap, "r")
	snap["x"] = Coordinator{NodeID: "X"}

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("x")
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "no-coordinator", StateNoCoordinator.String())
	assert.Equal(t, "fresh", StateFresh.String())
	assert.Equal(t, "stale", StateStale.String())
	assert.Equal(t, "unknown", State(9).String())
}
