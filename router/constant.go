package router

import "errors"

const (
	// 换乘惩罚/min，shortest与comfort中同样直接加在代价上
	TRANSFER_PENALTY = 5.0

	// 单条边按2站计算时间与舒适度
	EDGE_STOPS = 2

	// eco-friendly：可步行距离阈值/km及短边代价
	ECO_WALKABLE_KM = 2.0
	ECO_BASE_COST   = 1.0
	ECO_PER_KM      = 0.1
)

var (
	ErrUnknownObjective = errors.New("unknown objective")
	ErrUnknownStation   = errors.New("unknown station")
)
