// Package interval provides a closed integer interval with an enforced
// min <= max invariant. It backs the range-bounded slider and the frame
// navigator, where a pair of intervals (outer bounds, inner selection)
// must stay nested at all times.
package interval

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a mutation would leave min > max.
var ErrInvalidRange = errors.New("interval: min cannot be greater than max")

// Interval is a closed integer range [min, max]. The zero value is the
// valid interval [0, 0]. Interval is a value type: assignment copies,
// and copies never alias.
type Interval struct {
	min, max int
}

// New builds an interval, rejecting min > max.
func New(min, max int) (Interval, error) {
	var iv Interval
	if err := iv.Set(min, max); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Set replaces both bounds atomically. On error neither bound changes.
func (iv *Interval) Set(min, max int) error {
	if min > max {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, min, max)
	}
	iv.min, iv.max = min, max
	return nil
}

// SetMin moves the lower bound. It fails if v would cross the upper bound.
func (iv *Interval) SetMin(v int) error {
	if v > iv.max {
		return fmt.Errorf("%w: min %d exceeds max %d", ErrInvalidRange, v, iv.max)
	}
	iv.min = v
	return nil
}

// SetMax moves the upper bound. It fails if v would cross the lower bound.
func (iv *Interval) SetMax(v int) error {
	if v < iv.min {
		return fmt.Errorf("%w: max %d below min %d", ErrInvalidRange, v, iv.min)
	}
	iv.max = v
	return nil
}

// Min returns the lower bound.
func (iv Interval) Min() int { return iv.min }

// Max returns the upper bound.
func (iv Interval) Max() int { return iv.max }

// Span returns the number of integers covered, max-min+1.
func (iv Interval) Span() int { return iv.max - iv.min + 1 }

// Contains reports whether min <= x <= max.
func (iv Interval) Contains(x int) bool {
	return iv.min <= x && x <= iv.max
}

// ContainsInterval reports whether o nests fully inside iv.
func (iv Interval) ContainsInterval(o Interval) bool {
	return iv.min <= o.min && o.max <= iv.max
}

// Normalize grows iv to the smallest interval containing both iv and o.
// It is a union-bounding operation and never shrinks iv.
func (iv *Interval) Normalize(o Interval) {
	if o.min < iv.min {
		iv.min = o.min
	}
	if o.max > iv.max {
		iv.max = o.max
	}
}

// Clamp returns x forced into [min, max].
func (iv Interval) Clamp(x int) int {
	if x < iv.min {
		return iv.min
	}
	if x > iv.max {
		return iv.max
	}
	return x
}

// At returns min for index 0 and max for index 1.
func (iv Interval) At(i int) (int, error) {
	switch i {
	case 0:
		return iv.min, nil
	case 1:
		return iv.max, nil
	}
	return 0, fmt.Errorf("interval: index %d out of range (must be 0 or 1)", i)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d]", iv.min, iv.max)
}
