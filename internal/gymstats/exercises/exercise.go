package exercises

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type Type string

const (
	TypeWeight Type = "weight"
	TypeCardio Type = "cardio"

	DefaultRPE = 5
	MinRPE     = 1
	MaxRPE     = 10
)

var ErrInvalidExercise = errors.New("invalid exercise")

// Exercise is one entry of a workout or template. Weight exercises use
// weight/reps/sets, cardio ones use time/speed/distance/calories.
type Exercise struct {
	Name string `bson:"name" json:"name"`
	Type Type   `bson:"type" json:"type"`

	Weight *float64 `bson:"weight" json:"weight"`
	Reps   *int     `bson:"reps" json:"reps"`
	Sets   *int     `bson:"sets" json:"sets"`

	Time     *float64 `bson:"time" json:"time"`
	Speed    *float64 `bson:"speed" json:"speed"`
	Distance *float64 `bson:"distance" json:"distance"`
	Calories *int     `bson:"calories" json:"calories"`

	RPE   int     `bson:"rpe" json:"rpe"`
	Notes *string `bson:"notes" json:"notes"`
}

// Normalize fills in the defaults: weight type and an RPE of 5.
func (e *Exercise) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Type = Type(strings.ToLower(strings.TrimSpace(string(e.Type))))
	if e.Type == "" {
		e.Type = TypeWeight
	}
	if e.RPE == 0 {
		e.RPE = DefaultRPE
	}
}

func (e *Exercise) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidExercise)
	}
	if e.Type != TypeWeight && e.Type != TypeCardio {
		return fmt.Errorf("%w: %s: type must be %s or %s", ErrInvalidExercise, e.Name, TypeWeight, TypeCardio)
	}
	if e.RPE < MinRPE || e.RPE > MaxRPE {
		return fmt.Errorf("%w: %s: rpe must be between %d and %d", ErrInvalidExercise, e.Name, MinRPE, MaxRPE)
	}

	for field, v := range map[string]*float64{
		"weight":   e.Weight,
		"time":     e.Time,
		"speed":    e.Speed,
		"distance": e.Distance,
	} {
		if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: %s: %s must be a non-negative number", ErrInvalidExercise, e.Name, field)
		}
	}
	for field, v := range map[string]*int{
		"reps":     e.Reps,
		"sets":     e.Sets,
		"calories": e.Calories,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s: %s must not be negative", ErrInvalidExercise, e.Name, field)
		}
	}

	return nil
}

// Volume is weight*reps*sets for weight exercises and time*speed*rpe for
// cardio. Missing values count as zero; a missing type counts as weight.
func (e *Exercise) Volume() float64 {
	var v float64
	switch e.Type {
	case TypeWeight, "":
		v = floatOrZero(e.Weight) * float64(intOrZero(e.Reps)) * float64(intOrZero(e.Sets))
	case TypeCardio:
		v = floatOrZero(e.Time) * floatOrZero(e.Speed) * float64(e.RPE)
	}
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func TotalVolume(list []Exercise) float64 {
	total := 0.0
	for i := range list {
		total += list[i].Volume()
	}
	return total
}

// Prepare normalizes and validates every exercise in place. A nil list
// becomes an empty one.
func Prepare(list []Exercise) ([]Exercise, error) {
	if list == nil {
		return []Exercise{}, nil
	}
	for i := range list {
		list[i].Normalize()
		if err := list[i].Validate(); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
