package templates

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/fitnesstracker/internal/access"
	"github.com/2beens/fitnesstracker/internal/gymstats"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=templates_test

type templatesService interface {
	Create(ctx context.Context, scope access.Scope, in NewTemplate) (*Template, error)
	Get(ctx context.Context, scope access.Scope, id string) (*Template, error)
	List(ctx context.Context, scope access.Scope) ([]Template, error)
	ListByType(ctx context.Context, scope access.Scope, workoutType string) ([]Template, error)
	Update(ctx context.Context, scope access.Scope, id string, upd Update) (*Template, error)
	Delete(ctx context.Context, scope access.Scope, id string) error
	Seed(ctx context.Context, scope access.Scope) ([]Template, error)
}

type Handler struct {
	service        templatesService
	metricsManager *metrics.Manager
}

func NewHandler(service templatesService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the template routes, each wrapped by requireUser.
// Fixed paths go before /templates/{id} so they are not taken for ids.
func (handler *Handler) SetupRoutes(mainRouter *mux.Router, requireUser func(http.Handler) http.Handler) {
	route := func(path string, h http.HandlerFunc, method, name string) {
		mainRouter.Handle(path, requireUser(h)).Methods(method, "OPTIONS").Name(name)
	}
	route("/templates/", handler.HandleList, "GET", "list-templates")
	route("/templates/", handler.HandleCreate, "POST", "new-template")
	route("/templates", handler.HandleList, "GET", "list-templates-noslash")
	route("/templates", handler.HandleCreate, "POST", "new-template-noslash")
	route("/templates/seed", handler.HandleSeed, "POST", "seed-templates")
	route("/templates/type/{workout_type}", handler.HandleListByType, "GET", "list-templates-by-type")
	route("/templates/{id}", handler.HandleGet, "GET", "get-template")
	route("/templates/{id}", handler.HandleUpdate, "PUT", "update-template")
	route("/templates/{id}", handler.HandleDelete, "DELETE", "delete-template")
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidWorkoutType) {
		pkg.WriteErrorResponse(w, http.StatusBadRequest, "Workout type must be A, B, C, or D")
		return
	}
	gymstats.WriteServiceError(w, err, "template", ErrInvalidTemplate)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.list")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	list, err := handler.service.List(ctx, access.ForUser(user))
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, list)
}

func (handler *Handler) HandleListByType(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.listByType")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	list, err := handler.service.ListByType(ctx, access.ForUser(user), mux.Vars(r)["workout_type"])
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, list)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.get")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	tmpl, err := handler.service.Get(ctx, access.ForUser(user), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, tmpl)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.create")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	var in NewTemplate
	if err := gymstats.DecodeJSON(r, &in); err != nil {
		log.Tracef("new template, unmarshal json: %s", err)
		pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl, err := handler.service.Create(ctx, access.ForUser(user), in)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Debugf("template %s [%s] added for user %s", tmpl.ID, tmpl.WorkoutType, user.Username)
	pkg.WriteJSON(w, http.StatusCreated, tmpl)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.update")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	var upd Update
	if err := gymstats.DecodeJSON(r, &upd); err != nil {
		log.Tracef("update template, unmarshal json: %s", err)
		pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl, err := handler.service.Update(ctx, access.ForUser(user), mux.Vars(r)["id"], upd)
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, tmpl)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.delete")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	if err := handler.service.Delete(ctx, access.ForUser(user), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.seed")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	list, err := handler.service.Seed(ctx, access.ForUser(user))
	if err != nil {
		writeError(w, err)
		return
	}

	handler.metricsManager.CounterTemplatesSeeded.Inc()
	log.Infof("templates seeded for user %s: %d", user.Username, len(list))
	pkg.WriteJSON(w, http.StatusOK, list)
}
