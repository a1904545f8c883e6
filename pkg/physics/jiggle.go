package physics

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

const jiggleScale = 1e-6

// Jiggle yields tiny non-zero offsets used to separate coincident nodes.
// It walks a simplex noise field so the sequence is reproducible for a seed.
type Jiggle struct {
	noise opensimplex.Noise
	t     float64
}

// NewJiggle returns a jiggle source for the given seed.
func NewJiggle(seed int64) *Jiggle {
	return &Jiggle{noise: opensimplex.New(seed)}
}

// Next returns the next offset. It is never zero.
func (j *Jiggle) Next() float64 {
	j.t += 0.7548776662466927
	v := j.noise.Eval2(j.t, j.t*0.5698402909980532) * jiggleScale
	if v == 0 {
		return jiggleScale / 10
	}
	return v
}
