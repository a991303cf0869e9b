package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/gymstats"
	"github.com/2beens/fitnesstracker/internal/middleware"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/internal/users"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=account_test

type accountService interface {
	Register(ctx context.Context, in users.NewUser) (*users.User, error)
	Login(ctx context.Context, username, password string) (*Token, error)
	IssueToken(user *users.User) (*Token, error)
	ChangePassword(ctx context.Context, user *users.User, oldPassword, newPassword string) error
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	service        accountService
	metricsManager *metrics.Manager
}

func NewHandler(service accountService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the /auth routes. Register and login are rate limited
// per client IP; /auth/me is the only route open to deactivated users.
func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	authMiddleware *middleware.AuthMiddlewareHandler,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	authRouter := mainRouter.PathPrefix("/auth").Subrouter()

	rateLimit := middleware.RateLimit(rateLimiter, "auth", allowedPerMin, handler.metricsManager)
	authRouter.
		Handle("/register", rateLimit(http.HandlerFunc(handler.HandleRegister))).
		Methods("POST", "OPTIONS").Name("register")
	authRouter.
		Handle("/login", rateLimit(http.HandlerFunc(handler.HandleLogin))).
		Methods("POST", "OPTIONS").Name("login")

	authRouter.
		Handle("/me", authMiddleware.RequireUser()(http.HandlerFunc(handler.HandleMe))).
		Methods("GET", "OPTIONS").Name("me")

	requireActive := authMiddleware.RequireActiveUser()
	authRouter.
		Handle("/refresh", requireActive(http.HandlerFunc(handler.HandleRefresh))).
		Methods("POST", "OPTIONS").Name("refresh-token")
	authRouter.
		Handle("/change-password", requireActive(http.HandlerFunc(handler.HandleChangePassword))).
		Methods("POST", "OPTIONS").Name("change-password")
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.register")
	defer span.End()

	var in users.NewUser
	if err := gymstats.DecodeJSON(r, &in); err != nil {
		pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := handler.service.Register(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken):
			pkg.WriteErrorResponse(w, http.StatusBadRequest, "Username already registered")
		case errors.Is(err, users.ErrEmailTaken):
			pkg.WriteErrorResponse(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, users.ErrInvalidUser):
			pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		default:
			log.Errorf("register user [%s]: %s", in.Username, err)
			pkg.WriteErrorResponse(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	handler.metricsManager.CounterRegistrations.Inc()
	log.Infof("new user registered: %s", user.Username)
	pkg.WriteJSON(w, http.StatusCreated, user.Response())
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.login")
	defer span.End()

	var req LoginRequest
	if err := gymstats.DecodeJSON(r, &req); err != nil {
		pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := handler.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCredentials):
			handler.metricsManager.CounterLogins.WithLabelValues("bad_credentials").Inc()
			pkg.WriteUnauthorized(w, "Incorrect username or password")
		case errors.Is(err, auth.ErrInactiveUser):
			handler.metricsManager.CounterLogins.WithLabelValues("inactive").Inc()
			pkg.WriteErrorResponse(w, http.StatusBadRequest, "Inactive user")
		default:
			handler.metricsManager.CounterLogins.WithLabelValues("error").Inc()
			log.Errorf("login [%s]: %s", req.Username, err)
			pkg.WriteErrorResponse(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	handler.metricsManager.CounterLogins.WithLabelValues("ok").Inc()
	log.Debugf("user logged in: %s", req.Username)
	pkg.WriteJSON(w, http.StatusOK, token)
}

func (handler *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}
	pkg.WriteJSON(w, http.StatusOK, user.Response())
}

func (handler *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.refresh")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	token, err := handler.service.IssueToken(user)
	if err != nil {
		log.Errorf("refresh token [%s]: %s", user.Username, err)
		pkg.WriteErrorResponse(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, token)
}

// HandleChangePassword takes the passwords from a JSON body, or from the
// old_password and new_password query parameters when there is no body.
func (handler *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.changePassword")
	defer span.End()

	user, ok := gymstats.RequestUser(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
		if err := gymstats.DecodeJSON(r, &req); err != nil {
			pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		req.OldPassword = r.URL.Query().Get("old_password")
		req.NewPassword = r.URL.Query().Get("new_password")
	}

	if err := handler.service.ChangePassword(ctx, user, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrWrongOldPassword):
			pkg.WriteErrorResponse(w, http.StatusBadRequest, "Incorrect old password")
		case errors.Is(err, users.ErrInvalidUser):
			pkg.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		default:
			log.Errorf("change password [%s]: %s", user.Username, err)
			pkg.WriteErrorResponse(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	log.Infof("password changed for user %s", user.Username)
	pkg.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}
