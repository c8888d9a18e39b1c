package config

import (
	"errors"
	"fmt"
	"time"
)

// 资格策略名称
const (
	// PolicyPermissive 所有候选均有资格
	PolicyPermissive = "permissive"
	// PolicyMembership 成员或子角色协调者才有资格
	PolicyMembership = "membership"
)

// ElectionConfig 协调者选举配置
type ElectionConfig struct {
	// TickInterval 选举/心跳 tick 间隔
	TickInterval time.Duration `json:"tick_interval" mapstructure:"tick_interval"`

	// ReelectionTimeout 协调者新鲜度超时，超过即视为过期
	ReelectionTimeout time.Duration `json:"reelection_timeout" mapstructure:"reelection_timeout"`

	// Policy 资格策略：permissive / membership
	Policy string `json:"policy" mapstructure:"policy"`

	// Roles 按角色配置的成员与子角色（membership 策略使用）
	Roles []RoleMembershipConfig `json:"roles" mapstructure:"roles"`
}

// RoleMembershipConfig 单个角色的成员关系
type RoleMembershipConfig struct {
	// Role 角色路径
	Role string `json:"role" mapstructure:"role"`

	// Members 成员节点 ID
	Members []string `json:"members" mapstructure:"members"`

	// Children 子角色路径，其协调者同样有资格
	Children []string `json:"children" mapstructure:"children"`
}

// DefaultElectionConfig 返回默认选举配置
func DefaultElectionConfig() ElectionConfig {
	return ElectionConfig{
		TickInterval:      5 * time.Second,  // tick：5 秒
		ReelectionTimeout: 15 * time.Second, // 重选超时：15 秒（3 个 tick）
		Policy:            PolicyPermissive, // 默认放行
	}
}

// Validate 验证选举配置
func (c ElectionConfig) Validate() error {
	if c.TickInterval <= 0 {
		return errors.New("election tick interval must be positive")
	}
	if c.ReelectionTimeout <= 0 {
		return errors.New("election reelection timeout must be positive")
	}
	if c.ReelectionTimeout < c.TickInterval {
		return errors.New("election reelection timeout must not be shorter than tick interval")
	}
	switch c.Policy {
	case PolicyPermissive, PolicyMembership:
	default:
		return fmt.Errorf("unknown eligibility policy %q", c.Policy)
	}
	for i, r := range c.Roles {
		if r.Role == "" {
			return fmt.Errorf("election.roles[%d]: empty role", i)
		}
	}
	return nil
}
