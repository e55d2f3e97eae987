// Package series loads dated observations and prepares them for detection.
package series

import (
	"time"
)

// Point is one dated observation.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is an ordered set of observations.
type Series struct {
	Name   string
	Points []Point
}

func (s Series) Len() int { return len(s.Points) }

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Times returns the observation times in order.
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

func (s Series) withValues(values []float64) Series {
	out := Series{Name: s.Name, Points: make([]Point, len(s.Points))}
	for i, p := range s.Points {
		out.Points[i] = Point{Time: p.Time, Value: values[i]}
	}
	return out
}
