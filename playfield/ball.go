package playfield

import (
	"errors"

	"github.com/lixenwraith/vi-pinball/physics"
	"github.com/lixenwraith/vi-pinball/vmath"
)

// BallID is a monotonic handle, never reused within a World
type BallID uint64

var (
	ErrUnknownBall     = errors.New("unknown ball")
	ErrBallNotCaptured = errors.New("ball is not captured")
)

const noZone = -1

// Ball is the world-owned state of one ball
// Captured balls keep zero velocity and skip integration and collision
type Ball struct {
	ID       BallID
	Pos      vmath.Vec2
	PrevPos  vmath.Vec2
	Vel      vmath.Vec2
	Radius   float64
	Active   bool
	Captured bool
	Captor   int // Zone index holding the ball, noZone when free

	// ignore is the former captor skipped until the ball stops overlapping it
	ignore int
}

func (b *Ball) body() physics.Body {
	return physics.Body{Pos: b.Pos, Vel: b.Vel, Radius: b.Radius}
}

func (b *Ball) commit(body physics.Body) {
	b.Pos = body.Pos
	b.Vel = body.Vel
}
