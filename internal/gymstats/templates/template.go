package templates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/gymstats/exercises"
)

const CollectionName = "workout_templates"

var (
	ErrInvalidTemplate    = errors.New("invalid template")
	ErrInvalidWorkoutType = errors.New("workout type must be A, B, C, or D")

	workoutTypes = map[string]bool{"A": true, "B": true, "C": true, "D": true}
)

type Template struct {
	ID          docstore.ID          `bson:"_id" json:"_id"`
	UserID      string               `bson:"user_id" json:"user_id"`
	WorkoutType string               `bson:"workout_type" json:"workout_type"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Exercises   []exercises.Exercise `bson:"exercises" json:"exercises"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

func (t *Template) DocumentID() docstore.ID {
	return t.ID
}

func (t *Template) SetOwner(ownerID string) {
	t.UserID = ownerID
}

type NewTemplate struct {
	WorkoutType string               `json:"workout_type"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Exercises   []exercises.Exercise `json:"exercises"`
}

// Update is a partial update; nil fields are left untouched.
type Update struct {
	WorkoutType *string               `json:"workout_type"`
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Exercises   *[]exercises.Exercise `json:"exercises"`
}

// NormalizeWorkoutType upper-cases t and checks it is one of A to D.
func NormalizeWorkoutType(t string) (string, error) {
	t = strings.ToUpper(strings.TrimSpace(t))
	if !workoutTypes[t] {
		return "", ErrInvalidWorkoutType
	}
	return t, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	return name, nil
}
