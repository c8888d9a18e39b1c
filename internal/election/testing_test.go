package election

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/pkg/types"
)

const testRole = types.RolePath("cs.ai.001")

// fixture 单角色选举测试环境
type fixture struct {
	clock        *clock.Mock
	table        *routing.RouteTable
	coordinators *Coordinators
	engine       *Engine
}

func newFixture(t *testing.T, policy EligibilityPolicy, roles ...types.RolePath) *fixture {
	t.Helper()

	if len(roles) == 0 {
		roles = []types.RolePath{testRole}
	}
	node := types.Node{ID: "local"}
	for _, r := range roles {
		node.Identities = append(node.Identities, types.CanonicalIdentity{
			FullPath: types.FullPath("all.science." + string(r) + "::local"),
			RolePath: r,
		})
	}

	scoring := config.DefaultRoutingConfig().Scoring
	scoring.Strategy = config.StrategyEventDriven
	strategy, err := routing.NewStrategy(scoring)
	require.NoError(t, err)

	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))

	f := &fixture{
		clock:        mock,
		table:        routing.NewRouteTable(strategy, routing.WithClock(mock)),
		coordinators: NewCoordinators(),
	}
	f.engine = NewEngine(node, f.table, f.coordinators, policy,
		WithClock(mock),
		WithReelectionTimeout(15*time.Second),
	)
	return f
}

func (f *fixture) add(role types.RolePath, id types.NodeID, kind types.EndpointKind, score int) {
	f.table.AddCandidate(role, routing.NewEndpointWithScore(id, kind, string(id)+":7000", score))
}

func (f *fixture) coordinator(t *testing.T, role types.RolePath) (types.NodeID, bool) {
	t.Helper()
	co, ok := f.coordinators.Get(role)
	return co.NodeID, ok
}
