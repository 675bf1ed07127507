// Package web serves the booking pages: landing, flight search, booking
// confirmation, booking history, wallet and the auth forms. Pages render
// server-side; all data comes from the session store and the backend client.
package web

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/backend"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/session"
	"github.com/gin-gonic/gin"
)

type Options struct {
	CookieName    string
	TemplatesGlob string
	// Allowed auth form submissions per minute per client IP.
	AuthPerMinute int
	// Optional handler mounted at /metrics.
	Metrics http.Handler
	// Optional page view recorder.
	PageViews PageViewRecorder
}

type PageViewRecorder interface {
	RecordPageView(route string, statusCode int)
}

type Server struct {
	manager *session.Manager
	backend backend.API
	logger  *slog.Logger
	opts    Options
	engine  *gin.Engine
}

func NewServer(manager *session.Manager, api backend.API, logger *slog.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CookieName == "" {
		opts.CookieName = "fd_session"
	}
	if opts.AuthPerMinute == 0 {
		opts.AuthPerMinute = 20
	}

	s := &Server{manager: manager, backend: api, logger: logger, opts: opts}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLog())
	engine.SetFuncMap(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"when":  func(t domain.Time) string { return t.Local().Format("02 Jan 2006 15:04") },
	})
	if err := loadTemplates(engine, opts.TemplatesGlob); err != nil {
		return nil, err
	}

	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	pages := engine.Group("/", s.withSession())
	pages.GET("/", s.landing)
	pages.GET("/search", s.search)
	pages.GET("/flights/:id/book", s.confirmBooking)
	pages.POST("/flights/:id/book", s.submitBooking)
	pages.GET("/bookings", s.bookings)
	pages.GET("/tickets/:pnr", s.ticket)
	pages.GET("/wallet", s.wallet)
	pages.POST("/wallet/topup", s.topUp)

	authLimit := s.authRateLimit()
	pages.GET("/login", s.loginPage)
	pages.POST("/login", authLimit, s.loginSubmit)
	pages.GET("/register", s.registerPage)
	pages.POST("/register", authLimit, s.registerSubmit)
	pages.POST("/logout", s.logout)

	s.engine = engine
	return s, nil
}

func loadTemplates(engine *gin.Engine, glob string) (err error) {
	// gin panics on a bad glob; surface it as an error instead
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("load templates %q: %v", glob, r)
		}
	}()
	engine.LoadHTMLGlob(glob)
	return nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// store returns the wallet store bound to the caller's browser session,
// placed there by withSession.
func (s *Server) store(c *gin.Context) *session.Store {
	return c.MustGet(storeKey).(*session.Store)
}

// pageData merges the fields every template expects with page-specific ones.
func (s *Server) pageData(c *gin.Context, data gin.H) gin.H {
	store := s.store(c)
	out := gin.H{
		"User":    store.Current(),
		"Message": c.Query("msg"),
		"Error":   c.Query("err"),
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}
