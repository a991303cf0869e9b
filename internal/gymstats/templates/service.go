package templates

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitnesstracker/internal/access"
	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/gymstats/exercises"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
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

func (s *Service) build(in NewTemplate, now time.Time) (*Template, error) {
	workoutType, err := NormalizeWorkoutType(in.WorkoutType)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.Exercises == nil {
		return nil, fmt.Errorf("%w: exercises are required", ErrInvalidTemplate)
	}
	exerciseList, err := exercises.Prepare(in.Exercises)
	if err != nil {
		return nil, err
	}

	return &Template{
		ID:          docstore.NewID(),
		WorkoutType: workoutType,
		Name:        name,
		Description: in.Description,
		Exercises:   exerciseList,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Service) Create(ctx context.Context, scope access.Scope, in NewTemplate) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tmpl, err := s.build(in, s.nowFunc().UTC())
	if err != nil {
		return nil, err
	}

	owned, err := s.owned(scope)
	if err != nil {
		return nil, err
	}
	if err := owned.Insert(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}

	return s.Get(ctx, scope, tmpl.ID.String())
}

func (s *Service) Get(ctx context.Context, scope access.Scope, id string) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	owned, err := s.owned(scope)
	if err != nil {
		return nil, err
	}
	var t Template
	if err := owned.FindByID(ctx, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) List(ctx context.Context, scope access.Scope) ([]Template, error) {
	return s.find(ctx, scope, nil)
}

// ListByType lists the owner's templates of one workout type (A to D, any case).
func (s *Service) ListByType(ctx context.Context, scope access.Scope, workoutType string) ([]Template, error) {
	workoutType, err := NormalizeWorkoutType(workoutType)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, scope, docstore.Filter{"workout_type": workoutType})
}

func (s *Service) find(ctx context.Context, scope access.Scope, filter docstore.Filter) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	owned, err := s.owned(scope)
	if err != nil {
		return nil, err
	}
	var list []Template
	if err := owned.Find(ctx, filter, s.listLimit, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Template{}
	}
	span.SetAttributes(attribute.Int("count", len(list)))
	return list, nil
}

func (s *Service) Update(ctx context.Context, scope access.Scope, id string, upd Update) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	set := map[string]any{}
	if upd.WorkoutType != nil {
		workoutType, err := NormalizeWorkoutType(*upd.WorkoutType)
		if err != nil {
			return nil, err
		}
		set["workout_type"] = workoutType
	}
	if upd.Name != nil {
		name, err := normalizeName(*upd.Name)
		if err != nil {
			return nil, err
		}
		set["name"] = name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Exercises != nil {
		exerciseList, err := exercises.Prepare(*upd.Exercises)
		if err != nil {
			return nil, err
		}
		set["exercises"] = exerciseList
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
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	owned, err := s.owned(scope)
	if err != nil {
		return err
	}
	return owned.Delete(ctx, id)
}

// Seed replaces all of the owner's templates with the built-in A to D catalog.
// Clearing and inserting are separate store calls; a failure in between
// leaves the owner with no templates until the next seed.
func (s *Service) Seed(ctx context.Context, scope access.Scope) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	owned, err := s.owned(scope)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	var docs []access.Owned
	for _, in := range Catalog() {
		tmpl, err := s.build(in, now)
		if err != nil {
			return nil, fmt.Errorf("build catalog template %s: %w", in.WorkoutType, err)
		}
		docs = append(docs, tmpl)
	}

	removed, err := owned.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear templates: %w", err)
	}
	if err := owned.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert catalog: %w", err)
	}
	log.Debugf("templates seeded for %s, %d old templates removed", scope.OwnerID, removed)

	return s.List(ctx, scope)
}
