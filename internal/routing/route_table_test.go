package routing

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/pkg/types"
)

func newEventTable(t *testing.T, opts ...Option) *RouteTable {
	t.Helper()
	s, err := NewStrategy(defaultScoring(config.StrategyEventDriven))
	require.NoError(t, err)
	return NewRouteTable(s, opts...)
}

func TestRouteTable_AddAndList(t *testing.T) {
	table := newEventTable(t)
	role := types.RolePath("all.science.cs")

	_, ok := table.ListCandidates(role)
	assert.False(t, ok)

	table.AddCandidate(role, NewEndpointWithScore("A", types.EndpointPublic, "1.1.1.1:1", 10))
	table.AddCandidate(role, NewEndpointWithScore("B", types.EndpointPrivate, "2.2.2.2:2", 30))

	eps, ok := table.ListCandidates(role)
	require.True(t, ok)
	require.Len(t, eps, 2)
	assert.Equal(t, types.NodeID("A"), eps[0].NodeID)
	assert.Equal(t, types.NodeID("B"), eps[1].NodeID)

	// 修改副本不影响路由表
	eps[0].Score = 999
	again, _ := table.ListCandidates(role)
	assert.Equal(t, 10, again[0].Score)
}

func TestRouteTable_AddClampsNegativeScore(t *testing.T) {
	table := newEventTable(t)
	table.AddCandidate("r", Endpoint{NodeID: "A", Addr: "a:1", Score: -40})

	eps, _ := table.ListCandidates("r")
	assert.Equal(t, 0, eps[0].Score)
}

func TestRouteTable_BestCandidates(t *testing.T) {
	table := newEventTable(t)
	role := types.RolePath("r")
	table.AddCandidate(role, NewEndpointWithScore("A", types.EndpointPublic, "a:1", 100))
	table.AddCandidate(role, NewEndpointWithScore("B", types.EndpointPublic, "b:1", 150))
	table.AddCandidate(role, NewEndpointWithScore("C", types.EndpointPublic, "c:1", 100))
	table.AddCandidate(role, NewEndpointWithScore("D", types.EndpointPublic, "d:1", 150))

	ranked, ok := table.BestCandidates(role)
	require.True(t, ok)
	var order []types.NodeID
	for _, ep := range ranked {
		order = append(order, ep.NodeID)
	}
	assert.Equal(t, []types.NodeID{"B", "D", "A", "C"}, order, "descending score, insertion order on ties")

	// 原列表保持插入顺序
	listed, _ := table.ListCandidates(role)
	assert.Equal(t, types.NodeID("A"), listed[0].NodeID)

	best, ok := table.Best(role)
	require.True(t, ok)
	assert.Equal(t, types.NodeID("B"), best.NodeID)

	_, ok = table.BestCandidates("missing")
	assert.False(t, ok)
	_, ok = table.Best("missing")
	assert.False(t, ok)
}

func TestRouteTable_ReportSuccessFailure(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Unix(1000, 0))
	table := newEventTable(t, WithClock(mock))
	role := types.RolePath("r")
	table.AddCandidate(role, NewEndpointWithScore("A", types.EndpointPublic, "a:1", 15))

	assert.True(t, table.ReportSuccess(role, "A", "a:1"))
	eps, _ := table.ListCandidates(role)
	assert.Equal(t, 25, eps[0].Score)
	assert.Equal(t, mock.Now(), eps[0].LastSuccess)

	mock.Add(time.Second)
	assert.True(t, table.ReportFailure(role, "A", "a:1"))
	assert.True(t, table.ReportFailure(role, "A", "a:1"))
	eps, _ = table.ListCandidates(role)
	assert.Equal(t, 0, eps[0].Score)
	assert.Equal(t, mock.Now(), eps[0].LastFailure)

	assert.False(t, table.ReportSuccess(role, "A", "other:1"))
	assert.False(t, table.ReportFailure("missing", "A", "a:1"))
}

func TestRouteTable_Refresh(t *testing.T) {
	s, err := NewStrategy(defaultScoring(config.StrategyPeriodicJitter), WithRandom(fixedRandom(-2)))
	require.NoError(t, err)
	table := NewRouteTable(s)
	table.AddCandidate("r1", NewEndpointWithScore("A", types.EndpointPublic, "a:1", 3))
	table.AddCandidate("r2", NewEndpointWithScore("B", types.EndpointTunnel, "b:1", 900))

	table.Refresh()

	eps, _ := table.ListCandidates("r1")
	assert.Equal(t, 148, eps[0].Score)
	eps, _ = table.ListCandidates("r2")
	assert.Equal(t, 48, eps[0].Score)
}

func TestRouteTable_FeedbackLifetimeByStrategy(t *testing.T) {
	jitter, err := NewStrategy(defaultScoring(config.StrategyPeriodicJitter), WithRandom(fixedRandom(0)))
	require.NoError(t, err)
	event, err := NewStrategy(defaultScoring(config.StrategyEventDriven))
	require.NoError(t, err)

	for _, tc := range []struct {
		strategy ScoringStrategy
		want     int
	}{
		{jitter, 150}, // 周期抖动：下一轮 Refresh 覆盖发送反馈
		{event, 110},  // 事件驱动：反馈累积
	} {
		table := NewRouteTable(tc.strategy)
		table.NewCandidate("r", "A", types.EndpointPublic, "a:1")
		require.True(t, table.ReportFailure("r", "A", "a:1"))
		require.True(t, table.ReportFailure("r", "A", "a:1"))

		eps, _ := table.ListCandidates("r")
		assert.Equal(t, 110, eps[0].Score, tc.strategy.Name())

		table.Refresh()
		eps, _ = table.ListCandidates("r")
		assert.Equal(t, tc.want, eps[0].Score, tc.strategy.Name())
	}
}

func TestRouteTable_RolesAndSize(t *testing.T) {
	table := newEventTable(t)
	table.AddCandidate("b", NewEndpointWithScore("A", types.EndpointPublic, "a:1", 1))
	table.AddCandidate("a", NewEndpointWithScore("A", types.EndpointPublic, "a:1", 1))
	table.AddCandidate("a", NewEndpointWithScore("B", types.EndpointPublic, "b:1", 1))

	assert.Equal(t, []types.RolePath{"a", "b"}, table.Roles())
	assert.Equal(t, 3, table.Size())
}

func TestRouteTable_UnboundedByDefault(t *testing.T) {
	table := newEventTable(t)
	for i := 0; i < 1000; i++ {
		table.AddCandidate("r", NewEndpointWithScore(types.NodeID(fmt.Sprint(i)), types.EndpointPublic, "x:1", 1))
	}
	assert.Equal(t, 1000, table.Size())
}

func TestRouteTable_LRUEviction(t *testing.T) {
	table := newEventTable(t, WithMaxEndpoints(2))
	table.AddCandidate("r1", NewEndpointWithScore("A", types.EndpointPublic, "a:1", 1))
	table.AddCandidate("r2", NewEndpointWithScore("B", types.EndpointPublic, "b:1", 1))

	// 触达 A，使 B 成为最久未使用
	require.True(t, table.ReportSuccess("r1", "A", "a:1"))

	table.AddCandidate("r1", NewEndpointWithScore("C", types.EndpointPublic, "c:1", 1))

	assert.Equal(t, 2, table.Size())
	_, ok := table.ListCandidates("r2")
	assert.False(t, ok, "empty role dropped after eviction")

	eps, ok := table.ListCandidates("r1")
	require.True(t, ok)
	require.Len(t, eps, 2)
	assert.Equal(t, types.NodeID("A"), eps[0].NodeID)
	assert.Equal(t, types.NodeID("C"), eps[1].NodeID)
}

func TestRouteTable_LRUReAddReplacesInPlace(t *testing.T) {
	table := newEventTable(t, WithMaxEndpoints(2))
	for i := 0; i < 5; i++ {
		table.AddCandidate("r", NewEndpointWithScore("A", types.EndpointPublic, "a:1", 10+i))
	}
	assert.Equal(t, 1, table.Size())

	eps, ok := table.ListCandidates("r")
	require.True(t, ok)
	require.Len(t, eps, 1)
	assert.Equal(t, 14, eps[0].Score)

	table.AddCandidate("r", NewEndpointWithScore("B", types.EndpointPublic, "b:1", 1))
	table.AddCandidate("r", NewEndpointWithScore("A", types.EndpointPublic, "a:1", 20))
	table.AddCandidate("r", NewEndpointWithScore("C", types.EndpointPublic, "c:1", 1))

	// 重复添加刷新了 A 的最近使用，B 被淘汰
	assert.Equal(t, 2, table.Size())
	eps, _ = table.ListCandidates("r")
	require.Len(t, eps, 2)
	assert.Equal(t, types.NodeID("A"), eps[0].NodeID)
	assert.Equal(t, 20, eps[0].Score)
	assert.Equal(t, types.NodeID("C"), eps[1].NodeID)
}

func TestRouteTable_ConcurrentAccess(t *testing.T) {
	table := newEventTable(t)
	role := types.RolePath("r")

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				addr := fmt.Sprintf("%d:%d", w, i)
				table.AddCandidate(role, NewEndpointWithScore(types.NodeID(addr), types.EndpointPublic, addr, 50))
				table.ReportSuccess(role, types.NodeID(addr), addr)
				table.ReportFailure(role, types.NodeID(addr), addr)
				if ranked, ok := table.BestCandidates(role); ok {
					for i := 1; i < len(ranked); i++ {
						assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
					}
				}
				table.Refresh()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 800, table.Size())
	eps, _ := table.ListCandidates(role)
	for _, ep := range eps {
		assert.GreaterOrEqual(t, ep.Score, 0)
	}
}

func TestSeed(t *testing.T) {
	table := newEventTable(t)
	score := 7
	err := Seed(table, []config.SeedConfig{
		{Role: "r", NodeID: "A", Addr: "a:1", Kind: "private"},
		{Role: "r", NodeID: "B", Addr: "b:1", Kind: "tunnel", Score: &score},
	})
	require.NoError(t, err)

	eps, ok := table.ListCandidates("r")
	require.True(t, ok)
	require.Len(t, eps, 2)
	assert.Equal(t, 80, eps[0].Score)
	assert.Equal(t, types.EndpointTunnel, eps[1].Kind)
	assert.Equal(t, 7, eps[1].Score)

	err = Seed(table, []config.SeedConfig{{Role: "r", NodeID: "A", Addr: "a:1", Kind: "carrier-pigeon"}})
	assert.ErrorIs(t, err, types.ErrUnknownEndpointKind)
}
