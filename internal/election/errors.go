package election

import "errors"

var (
	// ErrNoEligibleEndpoint 角色没有合格候选
	ErrNoEligibleEndpoint = errors.New("election: no eligible endpoint")

	// ErrUnknownPolicy 未知资格策略
	ErrUnknownPolicy = errors.New("election: unknown eligibility policy")
)
