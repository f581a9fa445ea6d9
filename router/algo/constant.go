package algo

import "errors"

const (
	// 无效节点下标
	NO_NODE = -1
)

var (
	// 错误：节点下标越界
	ErrNodeOutOfRange = errors.New("node index out of range")
	// 错误：自环边
	ErrSelfEdge = errors.New("self edge is not allowed")
)
