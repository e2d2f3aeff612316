package meter

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
)

func currents(states []State) []int {
	out := make([]int, len(states))
	for i, s := range states {
		out[i] = s.Current
	}
	return out
}

func evenSteps(to int) []int {
	var out []int
	for v := 0; v <= to; v += Step {
		out = append(out, v)
	}
	return out
}

func TestAnimationFramesToNinety(t *testing.T) {
	frames := slices.Collect(NewAnimation(90, constants.Healthy).Frames())

	assert.Equal(t, evenSteps(90), currents(frames))
	assert.Equal(t, 90, frames[len(frames)-1].Current)
}

func TestAnimationOddTargetClamps(t *testing.T) {
	got := currents(slices.Collect(NewAnimation(91, constants.Unhealthy).Frames()))

	want := append(evenSteps(90), 91)
	assert.Equal(t, want, got)
	assert.NotContains(t, got, 92)
}

func TestAnimationTiers(t *testing.T) {
	for _, target := range []int{35, 55, 70, 90} {
		frames := slices.Collect(NewAnimation(target, constants.Unhealthy).Frames())
		require.NotEmpty(t, frames)
		last := frames[len(frames)-1]
		assert.Equal(t, target, last.Current, "target %d", target)

		prev := -1
		for _, f := range frames {
			assert.GreaterOrEqual(t, f.Current, prev)
			assert.LessOrEqual(t, f.Current, target)
			prev = f.Current
		}
	}
}

func TestAnimationZeroAndOutOfRangeTargets(t *testing.T) {
	assert.Equal(t, []int{0}, currents(slices.Collect(NewAnimation(0, constants.Healthy).Frames())))
	assert.Equal(t, []int{0}, currents(slices.Collect(NewAnimation(-5, constants.Healthy).Frames())))

	frames := slices.Collect(NewAnimation(150, constants.Healthy).Frames())
	assert.Equal(t, 100, frames[len(frames)-1].Current)
}

func TestAnimationStopsAfterFinalFrame(t *testing.T) {
	a := NewAnimation(4, constants.Healthy)
	var last State
	for range 3 {
		s, ok := a.Next()
		require.True(t, ok)
		last = s
	}
	assert.True(t, a.Done())
	_, ok := a.Next()
	assert.False(t, ok)
	assert.Equal(t, 4, last.Current)
}

func TestStrokeOffset(t *testing.T) {
	assert.InDelta(t, Circumference, StrokeOffset(0), 1e-9)
	assert.InDelta(t, 0, StrokeOffset(100), 1e-9)
	assert.InDelta(t, Circumference/2, StrokeOffset(50), 1e-9)
	assert.InDelta(t, 534.0707, Circumference, 1e-3)
}

func TestAnimationColourFixedByFlag(t *testing.T) {
	for s := range NewAnimation(10, constants.Healthy).Frames() {
		assert.Equal(t, "#44c796", s.Color)
		assert.Equal(t, "Healthy", s.Label)
		assert.True(t, s.Visible)
	}
	s, _ := NewAnimation(10, constants.Unhealthy).Next()
	assert.Equal(t, "#fd8e5e", s.Color)
	assert.Equal(t, "Contains Additives", s.Label)
}
