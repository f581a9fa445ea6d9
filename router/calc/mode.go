package calc

// 出行方式
type Mode string

const (
	MODE_WALK    Mode = "walk"
	MODE_GRAB    Mode = "grab"
	MODE_TRANSIT Mode = "transit"
)
