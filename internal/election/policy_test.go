package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/pkg/types"
)

func ep(id types.NodeID) routing.Endpoint {
	return routing.NewEndpointWithScore(id, types.EndpointPublic, string(id)+":1", 1)
}

func TestPermissivePolicy(t *testing.T) {
	assert.True(t, PermissivePolicy{}.Eligible(ep("anyone"), "r", nil))
}

func TestMembershipPolicy(t *testing.T) {
	p := NewMembershipPolicy([]config.RoleMembershipConfig{
		{Role: "cs.ai", Members: []string{"M1", "M2"}, Children: []string{"cs.ai.001"}},
	})

	assert.True(t, p.Eligible(ep("M1"), "cs.ai", nil))
	assert.False(t, p.Eligible(ep("stranger"), "cs.ai", nil), "non-member ignored")

	coordinators := map[types.RolePath]Coordinator{"cs.ai.001": {NodeID: "child"}}
	assert.True(t, p.Eligible(ep("child"), "cs.ai", coordinators), "child coordinator accepted")
	assert.False(t, p.Eligible(ep("stranger"), "cs.ai", coordinators))

	assert.True(t, p.Eligible(ep("stranger"), "unconfigured", nil), "unconfigured roles are permissive")
}

func TestMembershipPolicy_MergesDuplicateRoles(t *testing.T) {
	p := NewMembershipPolicy([]config.RoleMembershipConfig{
		{Role: "r", Members: []string{"A"}},
		{Role: "r", Members: []string{"B"}},
	})
	assert.True(t, p.Eligible(ep("A"), "r", nil))
	assert.True(t, p.Eligible(ep("B"), "r", nil))
}

func TestAllOf(t *testing.T) {
	notB := PolicyFunc(func(e routing.Endpoint, _ types.RolePath, _ map[types.RolePath]Coordinator) bool {
		return e.NodeID != "B"
	})
	p := AllOf(PermissivePolicy{}, notB)

	assert.True(t, p.Eligible(ep("A"), "r", nil))
	assert.False(t, p.Eligible(ep("B"), "r", nil))
	assert.True(t, AllOf().Eligible(ep("B"), "r", nil))
}

func TestNewPolicy(t *testing.T) {
	cfg := config.DefaultElectionConfig()
	p, err := NewPolicy(cfg)
	require.NoError(t, err)
	assert.IsType(t, PermissivePolicy{}, p)

	cfg.Policy = config.PolicyMembership
	p, err = NewPolicy(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MembershipPolicy{}, p)

	cfg.Policy = "lottery"
	_, err = NewPolicy(cfg)
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}
