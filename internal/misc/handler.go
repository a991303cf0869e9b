package misc

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	ServiceName    = "fitness-tracker-api"
	DefaultVersion = "1.0.0"

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	healthCheckTimeout = 3 * time.Second
)

type storePinger interface {
	Ping(ctx context.Context) error
}

type InfoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	// Failed lists the dependencies that did not answer, only set when unhealthy.
	Failed []string `json:"failed,omitempty"`
}

type Handler struct {
	store       storePinger
	redisClient *redis.Client // nil when redis is not configured
	versionInfo string
}

func NewHandler(store storePinger, redisClient *redis.Client, versionInfo string) *Handler {
	if versionInfo == "" {
		versionInfo = DefaultVersion
	}
	return &Handler{
		store:       store,
		redisClient: redisClient,
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.HandleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/health", handler.HandleHealth).Methods("GET", "OPTIONS").Name("health")
}

func (handler *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, InfoResponse{
		Message: "Fitness Workout Tracker API",
		Version: handler.versionInfo,
		Endpoints: map[string]string{
			"auth":      "/auth",
			"workouts":  "/workouts",
			"templates": "/templates",
		},
	})
}

func (handler *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var failed []string
	if err := handler.store.Ping(ctx); err != nil {
		log.Errorf("health: store ping: %s", err)
		failed = append(failed, "store")
	}
	if handler.redisClient != nil {
		if err := handler.redisClient.Ping(ctx).Err(); err != nil {
			log.Errorf("health: redis ping: %s", err)
			failed = append(failed, "redis")
		}
	}

	if len(failed) > 0 {
		pkg.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  StatusUnhealthy,
			Service: ServiceName,
			Failed:  failed,
		})
		return
	}

	pkg.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  StatusHealthy,
		Service: ServiceName,
	})
}
