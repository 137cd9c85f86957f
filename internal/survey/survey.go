// Package survey models a river-study field survey: a walk along a river
// with width and depth soundings taken at up to twenty sites.
package survey

import (
	"errors"
	"fmt"
)

// Input bounds, matching what the collection form accepts.
const (
	MaxSites     = 20
	MinSoundings = 2
	MaxSoundings = 20
	MaxDepth     = 10.0 // metres
)

// Sounding is a single depth measurement at a distance from the left bank.
type Sounding struct {
	Distance float64 `json:"distance"` // metres from left bank
	Depth    float64 `json:"depth"`    // metres
}

// Site is one measurement site along the walk.
type Site struct {
	Name      string     `json:"name"`
	Width     float64    `json:"width"` // metres, bank to bank
	Soundings []Sounding `json:"soundings"`
}

// Survey is a full set of measurements for one river walk.
type Survey struct {
	Walk  string `json:"walk"`
	Sites []Site `json:"sites"`
}

var ErrNoSites = errors.New("survey has no sites")

// Validate checks the survey against the collection-form bounds.
func (s Survey) Validate() error {
	if s.Walk == "" {
		return errors.New("missing walk id")
	}
	if len(s.Sites) == 0 {
		return ErrNoSites
	}
	if len(s.Sites) > MaxSites {
		return fmt.Errorf("%d sites exceeds maximum of %d", len(s.Sites), MaxSites)
	}
	for i, site := range s.Sites {
		if err := site.validate(); err != nil {
			return fmt.Errorf("site %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Site) validate() error {
	if s.Width <= 0 {
		return fmt.Errorf("width %.2f must be positive", s.Width)
	}
	if len(s.Soundings) < MinSoundings || len(s.Soundings) > MaxSoundings {
		return fmt.Errorf("%d soundings, want %d to %d", len(s.Soundings), MinSoundings, MaxSoundings)
	}
	for j, m := range s.Soundings {
		if m.Distance < 0 || m.Distance > s.Width {
			return fmt.Errorf("sounding %d: distance %.2f outside [0, %.2f]", j+1, m.Distance, s.Width)
		}
		if m.Depth < 0 || m.Depth > MaxDepth {
			return fmt.Errorf("sounding %d: depth %.2f outside [0, %.1f]", j+1, m.Depth, MaxDepth)
		}
	}
	return nil
}

// Area is the cross-sectional area of the channel in square metres,
// integrated by the trapezoid rule over the soundings.
func (s Site) Area() float64 {
	if len(s.Soundings) < 2 {
		return 0
	}
	var area float64
	for i := 1; i < len(s.Soundings); i++ {
		a, b := s.Soundings[i-1], s.Soundings[i]
		area += (b.Distance - a.Distance) * (a.Depth + b.Depth) / 2
	}
	return area
}

// MeanDepth is the arithmetic mean of the soundings in metres.
func (s Site) MeanDepth() float64 {
	if len(s.Soundings) == 0 {
		return 0
	}
	var sum float64
	for _, m := range s.Soundings {
		sum += m.Depth
	}
	return sum / float64(len(s.Soundings))
}

// MaxSoundedDepth is the deepest sounding in metres.
func (s Site) MaxSoundedDepth() float64 {
	var max float64
	for _, m := range s.Soundings {
		if m.Depth > max {
			max = m.Depth
		}
	}
	return max
}

// DefaultDistances spreads n soundings evenly across a channel of the
// given width, first at the left bank and last at the right.
func DefaultDistances(width float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{0}
	}
	out := make([]float64, n)
	step := width / float64(n-1)
	for i := range out {
		out[i] = step * float64(i)
	}
	out[n-1] = width // avoid drift past the bank
	return out
}

// Demo returns a plausible three-site survey used by the seed command and
// the examples.
func Demo(walk string) Survey {
	return Survey{
		Walk: walk,
		Sites: []Site{
			{
				Name:  "Upstream",
				Width: 2.4,
				Soundings: []Sounding{
					{Distance: 0, Depth: 0.1}, {Distance: 0.8, Depth: 0.35},
					{Distance: 1.6, Depth: 0.4}, {Distance: 2.4, Depth: 0.15},
				},
			},
			{
				Name:  "Meander",
				Width: 3.1,
				Soundings: []Sounding{
					{Distance: 0, Depth: 0.2}, {Distance: 1.0, Depth: 0.6},
					{Distance: 2.0, Depth: 0.85}, {Distance: 3.1, Depth: 0.1},
				},
			},
			{
				Name:  "Downstream",
				Width: 4.6,
				Soundings: []Sounding{
					{Distance: 0, Depth: 0.25}, {Distance: 1.5, Depth: 0.7},
					{Distance: 3.0, Depth: 0.9}, {Distance: 4.6, Depth: 0.3},
				},
			},
		},
	}
}
