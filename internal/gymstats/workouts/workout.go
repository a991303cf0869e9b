package workouts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/gymstats/exercises"
)

const (
	CollectionName     = "workouts"
	DefaultWorkoutType = "Daily"
)

var ErrInvalidWorkout = errors.New("invalid workout")

type Workout struct {
	ID          docstore.ID          `bson:"_id" json:"_id"`
	UserID      string               `bson:"user_id" json:"user_id"`
	Date        time.Time            `bson:"date" json:"date"`
	WorkoutType string               `bson:"workout_type" json:"workout_type"`
	Exercises   []exercises.Exercise `bson:"exercises" json:"exercises"`
	Notes       *string              `bson:"notes" json:"notes"`
	TotalVolume float64              `bson:"total_volume" json:"total_volume"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

func (w *Workout) DocumentID() docstore.ID {
	return w.ID
}

func (w *Workout) SetOwner(ownerID string) {
	w.UserID = ownerID
}

// NewWorkout is the create payload. Exercises must be present, but may be empty.
type NewWorkout struct {
	Date        *Date                `json:"date"`
	WorkoutType *string              `json:"workout_type"`
	Exercises   []exercises.Exercise `json:"exercises"`
	Notes       *string              `json:"notes"`
}

// Update is a partial update; nil fields are left untouched.
type Update struct {
	Date        *Date                 `json:"date"`
	WorkoutType *string               `json:"workout_type"`
	Exercises   *[]exercises.Exercise `json:"exercises"`
	Notes       *string               `json:"notes"`
}

func normalizeType(workoutType string) (string, error) {
	workoutType = strings.TrimSpace(workoutType)
	if workoutType == "" {
		return "", fmt.Errorf("%w: workout_type must not be empty", ErrInvalidWorkout)
	}
	return workoutType, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date accepts RFC 3339 timestamps as well as zone-less ones (taken as UTC)
// and plain dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: date must be a string", ErrInvalidWorkout)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: unrecognized date %q", ErrInvalidWorkout, s)
}
