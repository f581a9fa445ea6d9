package calc_test

import (
	"testing"

	"git.fiblab.net/sim/tripplanner/router/calc"
	"github.com/stretchr/testify/assert"
)

func TestWalkingTimeMin(t *testing.T) {
	c := calc.DefaultConstants()
	// 1000/4500h*60 = 13.33 -> 14
	assert.Equal(t, 14.0, c.WalkingTimeMin(1000))
	assert.Equal(t, 0.0, c.WalkingTimeMin(0))
}

func TestGrab(t *testing.T) {
	c := calc.DefaultConstants()
	assert.Equal(t, 15.0, c.GrabTimeMin(5000))
	// 2.0 + 5*0.65 + 15*0.3 + 1.0
	assert.Equal(t, 10.75, c.GrabFare(5000))
}

func TestTransitTimeFromDistance(t *testing.T) {
	c := calc.DefaultConstants()
	assert.Equal(t, 0.0, c.TransitTimeFromDistance("KJ", 0, 5))
	// 3.3km / 33kmh = 6min，2站一次停站0.33 -> 6
	assert.Equal(t, 6.0, c.TransitTimeFromDistance("KJ", 3.3, 2))
	// 10km / 30kmh（默认速度）= 20min + 4*0.33 = 21.32 -> 21
	assert.Equal(t, 21.0, c.TransitTimeFromDistance("UNKNOWN", 10, 5))
	assert.Equal(t, 39.0, c.RouteSpeed(" mrt"))
	assert.Equal(t, 30.0, c.RouteSpeed(""))
}

func TestRounding(t *testing.T) {
	// 0.8 + 5*0.15 = 1.55 -> 1.6
	assert.Equal(t, 1.6, calc.RoundFare(0.8+5*0.15))
	assert.Equal(t, 0.009, calc.Round3(0.009375))
	assert.Equal(t, 1.24, calc.Round2(1.2351))
}
