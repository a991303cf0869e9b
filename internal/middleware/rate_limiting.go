package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows each client IP allowedPerMin requests per minute on the
// wrapped routes, counted under routerName.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ip, err := pkg.ReadUserIP(r)
			if err != nil {
				ip = "unknown"
			}

			res, err := rateLimiter.Allow(
				r.Context(),
				routerName+"||"+ip,
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limiter [%s]: %s", routerName, err)
				pkg.WriteErrorResponse(w, http.StatusInternalServerError, "rate limit internal error")
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			pkg.WriteErrorResponse(
				w,
				http.StatusTooManyRequests,
				fmt.Sprintf("retry after %d seconds", retryAfter),
			)
		})
	}
}

// maxLocalLimiterKeys bounds the memory of LocalRateLimiter; when reached,
// all per key state is dropped.
const maxLocalLimiterKeys = 10_000

// LocalRateLimiter is an in-process RequestRateLimiter, used when no Redis
// is configured. Limits are per instance.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	nowFunc  func() time.Time
}

func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		nowFunc:  time.Now,
	}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	if limit.IsZero() || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid rate limit: %s", limit)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxLocalLimiterKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		every := rate.Limit(float64(limit.Rate) / limit.Period.Seconds())
		limiter = rate.NewLimiter(every, limit.Burst)
		l.limiters[key] = limiter
	}

	now := l.nowFunc()
	res := &redis_rate.Result{
		Limit:      limit,
		RetryAfter: -1,
		ResetAfter: limit.Period,
	}
	if limiter.AllowN(now, 1) {
		res.Allowed = 1
		res.Remaining = int(limiter.TokensAt(now))
		return res, nil
	}

	reservation := limiter.ReserveN(now, 1)
	res.RetryAfter = reservation.DelayFrom(now)
	reservation.CancelAt(now)
	return res, nil
}
