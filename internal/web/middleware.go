package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const storeKey = "session.store"

// cookie lifetime for the browser session id; the snapshot TTL in redis is
// what actually bounds how long a login survives.
const cookieMaxAge = 365 * 24 * 60 * 60

// withSession assigns a uuid session id on first visit and attaches the
// restored wallet store to the request context.
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(s.opts.CookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(s.opts.CookieName, sid, cookieMaxAge, "/", "", false, true)
		}
		c.Set(storeKey, s.manager.Session(c.Request.Context(), sid))
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		s.logger.Info("request",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if s.opts.PageViews != nil {
			s.opts.PageViews.RecordPageView(route, c.Writer.Status())
		}
	}
}

// authRateLimit caps login/register submissions per client IP so the auth
// forms cannot be used to hammer the backend's password check.
func (s *Server) authRateLimit() gin.HandlerFunc {
	perMinute := s.opts.AuthPerMinute

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.String(http.StatusTooManyRequests, "Too many attempts, try again shortly.")
			c.Abort()
			return
		}
		c.Next()
	}
}
