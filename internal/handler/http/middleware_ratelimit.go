package http

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-screenly/internal/app"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/utils"
)

const forgotPasswordKeyPrefix = "forgot-password:"

// limitForgotPassword throttles reset requests per client IP through the
// shared limiter. Limiter outages let the request through.
func (h *Handler) limitForgotPassword(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := h.cfg.RateLimit.ForgotPasswordPerHour
		if h.limiter == nil || limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)
		ip := clientIP(r)

		allowed, retryAfter, err := h.limiter.Allow(r.Context(), forgotPasswordKeyPrefix+ip, limit, time.Hour)
		if err != nil {
			log.Warn().Err(err).Msg("forgot-password limiter unavailable, letting request through")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			log.Info().Str("ip", ip).Dur("retry_after", retryAfter).Msg("forgot-password rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			utils.WriteError(w, app.MsgTooManyRequests, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr. middleware.RealIP may already
// have replaced it with a bare address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
