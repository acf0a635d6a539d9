package api

import (
	"fmt"
	"net"
	"net/http"
)

func (s *RoomCalApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				s.log.Errorf("panic: %v", panicError)
				errResp := NewInternalServerError(panicError)
				w.Header().Set("Connection", "close")
				s.writeError(w, r, errResp)
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *RoomCalApp) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenCookie, err := r.Cookie(tokenCookieKey)
		if err != nil {
			s.writeError(w, r, NewUnauthorizedError())
			return
		}

		userId, err := s.extractUserIdFromToken(tokenCookie.Value)
		if err != nil {
			s.log.WithError(err).Info("failed to extract user id from token")
			s.writeError(w, r, NewUnauthorizedError())
			return
		}

		ctx := WithUserId(r.Context(), userId)
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

		next(w, r.WithContext(ctx))
	}
}

// rateLimit caps requests per client address for one endpoint. It is a
// no-op when no limiter is configured. Limiter failures let the request
// through so a Redis outage does not lock everyone out.
func (s *RoomCalApp) rateLimit(scope string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next(w, r)
			return
		}

		key := scope + ":" + clientIP(r)
		ok, err := s.limiter.Allow(r.Context(), key)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Error("rate limiter unavailable")
		} else if !ok {
			s.log.WithField("key", key).Warn("rate limited")
			s.writeError(w, r, NewTooManyRequestsError())
			return
		}

		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
