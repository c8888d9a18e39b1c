package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/pkg/types"
)

func defaultScoring(strategy string) config.ScoringConfig {
	cfg := config.DefaultRoutingConfig().Scoring
	cfg.Strategy = strategy
	return cfg
}

// fixedRandom 返回固定偏移的随机源：intN(n) = offset + n/2，对应抖动 offset
func fixedRandom(offset int) func(int) int {
	return func(n int) int { return n/2 + offset }
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy(defaultScoring(config.StrategyEventDriven))
	require.NoError(t, err)
	assert.Equal(t, config.StrategyEventDriven, s.Name())

	s, err = NewStrategy(defaultScoring(config.StrategyPeriodicJitter))
	require.NoError(t, err)
	assert.Equal(t, config.StrategyPeriodicJitter, s.Name())

	_, err = NewStrategy(defaultScoring("gossip"))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestStrategy_BaseTiers(t *testing.T) {
	s, err := NewStrategy(defaultScoring(config.StrategyEventDriven))
	require.NoError(t, err)

	assert.Equal(t, 150, s.BaseScore(types.EndpointPublic))
	assert.Equal(t, 80, s.BaseScore(types.EndpointPrivate))
	assert.Equal(t, 50, s.BaseScore(types.EndpointTunnel))
	assert.Greater(t, s.BaseScore(types.EndpointPublic), s.BaseScore(types.EndpointPrivate))
	assert.Greater(t, s.BaseScore(types.EndpointPrivate), s.BaseScore(types.EndpointTunnel))
}

func TestStrategy_SuccessFailure(t *testing.T) {
	for _, name := range []string{config.StrategyEventDriven, config.StrategyPeriodicJitter} {
		t.Run(name, func(t *testing.T) {
			s, err := NewStrategy(defaultScoring(name))
			require.NoError(t, err)

			assert.Equal(t, 110, s.Success(100))
			assert.Equal(t, 80, s.Failure(100))
			assert.Equal(t, 0, s.Failure(15), "failure floors at zero")
			assert.Equal(t, 0, s.Failure(0))
		})
	}
}

func TestEventDriven_RefreshKeepsScore(t *testing.T) {
	s, err := NewStrategy(defaultScoring(config.StrategyEventDriven))
	require.NoError(t, err)

	assert.Equal(t, 37, s.Refresh(types.EndpointPublic, 37))
}

func TestPeriodicJitter_Refresh(t *testing.T) {
	cfg := defaultScoring(config.StrategyPeriodicJitter)

	s, err := NewStrategy(cfg, WithRandom(fixedRandom(3)))
	require.NoError(t, err)
	assert.Equal(t, 153, s.Refresh(types.EndpointPublic, 0))
	assert.Equal(t, 83, s.Refresh(types.EndpointPrivate, 999))

	s, err = NewStrategy(cfg, WithRandom(func(int) int { return 0 }))
	require.NoError(t, err)
	assert.Equal(t, 40, s.Refresh(types.EndpointTunnel, 50), "lowest jitter")

	cfg.TunnelBase = 5
	s, err = NewStrategy(cfg, WithRandom(func(int) int { return 0 }))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Refresh(types.EndpointTunnel, 50), "refresh floors at zero")
}

func TestPeriodicJitter_RefreshWithinBounds(t *testing.T) {
	s, err := NewStrategy(defaultScoring(config.StrategyPeriodicJitter))
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		score := s.Refresh(types.EndpointPrivate, 0)
		assert.GreaterOrEqual(t, score, 70)
		assert.LessOrEqual(t, score, 90)
	}
}

func TestPeriodicJitter_ZeroJitter(t *testing.T) {
	cfg := defaultScoring(config.StrategyPeriodicJitter)
	cfg.Jitter = 0
	s, err := NewStrategy(cfg)
	require.NoError(t, err)

	assert.Equal(t, 150, s.Refresh(types.EndpointPublic, 12))
}

func TestEndpoint_Reports(t *testing.T) {
	s, err := NewStrategy(defaultScoring(config.StrategyEventDriven))
	require.NoError(t, err)

	ep := NewEndpoint("B", types.EndpointPrivate, "10.0.0.2:7000", s)
	assert.Equal(t, 80, ep.Score)
	assert.True(t, ep.LastSuccess.IsZero())
	assert.True(t, ep.LastFailure.IsZero())

	t1 := time.Unix(100, 0)
	ep.ReportSuccess(s, t1)
	assert.Equal(t, 90, ep.Score)
	assert.Equal(t, t1, ep.LastSuccess)

	t2 := time.Unix(200, 0)
	for i := 0; i < 10; i++ {
		ep.ReportFailure(s, t2)
	}
	assert.Equal(t, 0, ep.Score)
	assert.Equal(t, t2, ep.LastFailure)
	assert.Equal(t, t1, ep.LastSuccess)
}

func TestEndpoint_WithScore(t *testing.T) {
	ep := NewEndpointWithScore("A", types.EndpointPublic, "1.2.3.4:5", -5)
	assert.Equal(t, 0, ep.Score)

	ep = NewEndpointWithScore("A", types.EndpointPublic, "1.2.3.4:5", 7)
	assert.Equal(t, 7, ep.Score)
}

func TestEndpoint_Validate(t *testing.T) {
	assert.NoError(t, NewEndpointWithScore("A", types.EndpointPublic, "1.2.3.4:5", 1).Validate())
	assert.ErrorIs(t, NewEndpointWithScore("", types.EndpointPublic, "1.2.3.4:5", 1).Validate(), ErrInvalidEndpoint)
	assert.ErrorIs(t, NewEndpointWithScore("A", types.EndpointPublic, "", 1).Validate(), ErrInvalidEndpoint)
	assert.ErrorIs(t, NewEndpointWithScore("A", types.EndpointKind(9), "x:1", 1).Validate(), ErrInvalidEndpoint)
}
