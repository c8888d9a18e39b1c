package routing

import "errors"

var (
	// ErrUnknownStrategy 未知评分策略
	ErrUnknownStrategy = errors.New("routing: unknown scoring strategy")

	// ErrInvalidEndpoint 无效端点
	ErrInvalidEndpoint = errors.New("routing: invalid endpoint")
)
