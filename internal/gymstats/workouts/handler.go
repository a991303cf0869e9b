package workouts

import (
	"context"
	"net/http"

	"github.com/2beens/fitnesstracker/internal/access"
	"github.com/2beens/fitnesstracker/internal/gymstats"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	Create(ctx context.Context, scope access.Scope, in NewWorkout) (*Workout, error)
	Get(ctx context.Context, scope access.Scope, id string) (*Workout, error)
	List(ctx context.Context, scope access.Scope) ([]Workout, error)
	Update(ctx context.Context, scope access.Scope, id string, upd Update) (*Workout, error)
	Delete(ctx context.Context, scope access.Scope, id string) error
}

type Handler struct {
	service        workoutsService
	metricsManager *metrics.Manager
}

func NewHandler(service workoutsService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the workout routes, each wrapped by requireUser.
// The collection routes answer both with and without the trailing slash.
func (handler *Handler) SetupRoutes(mainRouter *mux.Router, requireUser func(http.Handler) http.Handler) {
	route := func(path string, h http.HandlerFunc, method, name string) {
		mainRouter.Handle(path, requireUser(h)).Methods(method, "OPTIONS").Name(name)
	}
	route("/workouts/", handler.HandleList, "GET", "list-workouts")
	route("/workouts/", handler.HandleCreate, "POST", "new-workout")
	route("/workouts", handler.HandleList, "GET", "list-workouts-noslash")
	route("/workouts", handler.HandleCreate, "POST", "new-workout-noslash")
	route("/workouts/{id}", handler.HandleGet, "GET", "get-workout")
	route("/workouts/{id}", handler.HandleUpdate, "PUT", "update-workout")
	route("/workouts/{id}", handler.HandleDelete, "DELETE", "delete-workout")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	list, err := handler.service.List(ctx, access.ForUser(user))
	if err != nil {
		gymstats.WriteServiceError(w, err, "workout")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, list)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	workout, err := handler.service.Get(ctx, access.ForUser(user), mux.Vars(r)["id"])
	if err != nil {
		gymstats.WriteServiceError(w, err, "workout")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, workout)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	var in NewWorkout
	if err := gymstats.DecodeJSON(r, &in); err != nil {
		log.Tracef("new workout, unmarshal json: %s", err)
		pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := handler.service.Create(ctx, access.ForUser(user), in)
	if err != nil {
		gymstats.WriteServiceError(w, err, "workout", ErrInvalidWorkout)
		return
	}

	handler.metricsManager.CounterWorkoutsCreated.Inc()
	log.Debugf("workout %s added for user %s, volume: %.1f", workout.ID, user.Username, workout.TotalVolume)
	pkg.WriteJSON(w, http.StatusCreated, workout)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	var upd Update
	if err := gymstats.DecodeJSON(r, &upd); err != nil {
		log.Tracef("update workout, unmarshal json: %s", err)
		pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := handler.service.Update(ctx, access.ForUser(user), mux.Vars(r)["id"], upd)
	if err != nil {
		gymstats.WriteServiceError(w, err, "workout", ErrInvalidWorkout)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, workout)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.service.Delete(ctx, access.ForUser(user), id); err != nil {
		gymstats.WriteServiceError(w, err, "workout")
		return
	}

	log.Debugf("workout %s deleted by %s", id, user.Username)
	w.WriteHeader(http.StatusNoContent)
}
