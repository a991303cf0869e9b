package workouts

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitnesstracker/internal/access"
	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/gymstats/exercises"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type Service struct {
	coll      docstore.Collection
	listLimit int64
	nowFunc   func() time.Time
}

func NewService(store docstore.Store, listLimit int) *Service {
	return &Service{
		coll:      store.Collection(CollectionName),
		listLimit: int64(listLimit),
		nowFunc:   time.Now,
	}
}

func (s *Service) owned(scope access.Scope) (*access.OwnedCollection, error) {
	return access.NewOwnedCollection(s.coll, scope)
}

func (s *Service) Create(ctx context.Context, scope access.Scope, in NewWorkout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if in.Exercises == nil {
		return nil, fmt.Errorf("%w: exercises are required", ErrInvalidWorkout)
	}
	exerciseList, err := exercises.Prepare(in.Exercises)
	if err != nil {
		return nil, err
	}

	workoutType := DefaultWorkoutType
	if in.WorkoutType != nil {
		if workoutType, err = normalizeType(*in.WorkoutType); err != nil {
			return nil, err
		}
	}

	now := s.nowFunc().UTC()
	date := now
	if in.Date != nil {
		date = in.Date.Time
	}

	workout := &Workout{
		ID:          docstore.NewID(),
		Date:        date,
		WorkoutType: workoutType,
		Exercises:   exerciseList,
		Notes:       in.Notes,
		TotalVolume: exercises.TotalVolume(exerciseList),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	owned, err := s.owned(scope)
	if err != nil {
		return nil, err
	}
	if err := owned.Insert(ctx, workout); err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}
	span.SetAttributes(attribute.String("workout.id", workout.ID.String()))

	return s.Get(ctx, scope, workout.ID.String())
}

func (s *Service) Get(ctx context.Context, scope access.Scope, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	owned, err := s.owned(scope)
	if err != nil {
		return nil, err
	}
	var w Workout
	if err := owned.FindByID(ctx, id, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns the first workouts of the owner in store order, capped at the list limit.
func (s *Service) List(ctx context.Context, scope access.Scope) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	owned, err := s.owned(scope)
	if err != nil {
		return nil, err
	}
	var list []Workout
	if err := owned.Find(ctx, nil, s.listLimit, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Workout{}
	}
	span.SetAttributes(attribute.Int("count", len(list)))
	return list, nil
}

// Update applies the supplied fields only. Replacing exercises always
// recomputes the total volume from the new list.
func (s *Service) Update(ctx context.Context, scope access.Scope, id string, upd Update) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	set := map[string]any{}
	if upd.Date != nil {
		set["date"] = upd.Date.Time
	}
	if upd.WorkoutType != nil {
		workoutType, err := normalizeType(*upd.WorkoutType)
		if err != nil {
			return nil, err
		}
		set["workout_type"] = workoutType
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.Exercises != nil {
		exerciseList, err := exercises.Prepare(*upd.Exercises)
		if err != nil {
			return nil, err
		}
		set["exercises"] = exerciseList
		set["total_volume"] = exercises.TotalVolume(exerciseList)
	}
	set["updated_at"] = s.nowFunc().UTC()

	owned, err := s.owned(scope)
	if err != nil {
		return nil, err
	}
	if err := owned.Update(ctx, id, set); err != nil {
		return nil, err
	}

	return s.Get(ctx, scope, id)
}

func (s *Service) Delete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	owned, err := s.owned(scope)
	if err != nil {
		return err
	}
	return owned.Delete(ctx, id)
}
