package app

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/election"
	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/node"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/internal/transport/mem"
	"github.com/dep2p/go-virgo/pkg/types"
)

const testRole = "cs.ai.001"

func testConfig(id, addr string) *config.Config {
	cfg := config.NewConfig()
	cfg.Identity.NodeID = id
	cfg.Identity.Identities = []types.CanonicalIdentity{
		{FullPath: "all.science.cs.ai.001::" + types.FullPath(id), RolePath: testRole},
	}
	cfg.Transport.Kind = config.TransportMemory
	if addr != "" {
		cfg.Transport.ListenAddr = addr
	}
	cfg.Routing.Seeds = []config.SeedConfig{
		{Role: testRole, NodeID: "A", Addr: "a:7000", Kind: "public"},
		{Role: testRole, NodeID: "B", Addr: "b:7000", Kind: "private"},
		{Role: testRole, NodeID: "C", Addr: "c:7000", Kind: "tunnel"},
	}
	return cfg
}

func TestBootstrap_StartElectsCoordinator(t *testing.T) {
	network := mem.NewNetwork()
	mock := clock.NewMock()

	b := NewBootstrap(testConfig("A", "a:7000"), WithMemNetwork(network), WithClock(mock))
	rt, err := b.Start(context.Background())
	require.NoError(t, err)
	defer func() { _ = rt.Stop(context.Background()) }()

	assert.Equal(t, types.NodeID("A"), rt.Node.ID())
	assert.Equal(t, "a:7000", rt.Node.Addr())
	require.NotNil(t, rt.Metrics)

	require.Eventually(t, func() bool {
		co, ok := rt.Node.Coordinator(testRole)
		return ok && co.NodeID == "A"
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, 3, rt.Node.RouteTable().Size())
}

func TestBootstrap_TwoNodesAgree(t *testing.T) {
	network := mem.NewNetwork()
	mock := clock.NewMock()

	var runtimes []*Runtime
	for _, n := range []struct{ id, addr string }{{"A", "a:7000"}, {"B", "b:7000"}} {
		rt, err := NewBootstrap(testConfig(n.id, n.addr), WithMemNetwork(network), WithClock(mock)).
			Start(context.Background())
		require.NoError(t, err)
		runtimes = append(runtimes, rt)
	}
	defer func() {
		for _, rt := range runtimes {
			_ = rt.Stop(context.Background())
		}
	}()

	for _, rt := range runtimes {
		rt := rt
		require.Eventually(t, func() bool {
			co, ok := rt.Node.Coordinator(testRole)
			return ok && co.NodeID == "A"
		}, 5*time.Second, 10*time.Millisecond)
	}
}

func TestBootstrap_GeneratedNodeID(t *testing.T) {
	cfg := testConfig("", "")
	rt, err := NewBootstrap(cfg, WithClock(clock.NewMock())).Start(context.Background())
	require.NoError(t, err)
	defer func() { _ = rt.Stop(context.Background()) }()

	assert.Len(t, rt.Node.ID().String(), 36)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	cfg := testConfig("A", "a:7000")
	cfg.Heartbeat.Codec = "xml"

	_, err := NewBootstrap(cfg).Start(context.Background())
	assert.Error(t, err)
}

func TestBootstrap_StopBeforeStart(t *testing.T) {
	assert.NoError(t, NewBootstrap(testConfig("A", "")).Stop(context.Background()))
}

func TestBootstrap_MetricsServer(t *testing.T) {
	cfg := testConfig("A", "a:7000")
	cfg.Metrics.Enabled = true
	cfg.Metrics.ListenAddr = "127.0.0.1:0"

	var server *metrics.Server
	b := NewBootstrap(cfg,
		WithMemNetwork(mem.NewNetwork()),
		WithClock(clock.NewMock()),
		WithFxOptions(fx.Populate(&server)),
	)
	rt, err := b.Start(context.Background())
	require.NoError(t, err)
	defer func() { _ = rt.Stop(context.Background()) }()
	require.NotNil(t, server)

	require.Eventually(t, func() bool {
		_, ok := rt.Node.Coordinator(testRole)
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + server.Addr() + "/debug/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"coordinator": "A"`)

	resp2, err := http.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	body, err = io.ReadAll(resp2.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "virgo_route_candidates")
}

func TestBootstrap_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "virgo.log")
	cfg := testConfig("A", "a:7000")
	cfg.Log.File = path

	rt, err := NewBootstrap(cfg, WithMemNetwork(mem.NewNetwork()), WithClock(clock.NewMock())).
		Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, rt.Stop(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "日志文件初始化成功")
}

// TestModules_Graph 直接用 fxtest 组装领域模块
func TestModules_Graph(t *testing.T) {
	cfg := testConfig("A", "a:7000")

	var (
		n            *node.Node
		table        *routing.RouteTable
		coordinators *election.Coordinators
		policy       election.EligibilityPolicy
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Supply(mem.NewNetwork()),
		FoundationModules(),
		TransportModules(cfg),
		DomainModules(),
		MonitoringModules(),
		NodeModules(),
		fx.Decorate(func(clock.Clock) clock.Clock { return clock.NewMock() }),
		fx.Populate(&n, &table, &coordinators, &policy),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.IsType(t, election.PermissivePolicy{}, policy)
	assert.Equal(t, 3, table.Size())

	require.Eventually(t, func() bool {
		return coordinators.Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
	co, _ := n.Coordinator(testRole)
	assert.Equal(t, types.NodeID("A"), co.NodeID)
}
