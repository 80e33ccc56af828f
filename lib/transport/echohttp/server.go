package echohttp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/core/service/policy"
	"example.com/swarmpolicy/lib/core/service/session"
	"example.com/swarmpolicy/lib/logger"
	"example.com/swarmpolicy/lib/platform/mem"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

var l_http = logger.Named("echohttp")

type HTTPServe struct {
	Sessions *session.Store
}

type errorBody struct {
	Error string `json:"error"`
}

type created struct {
	ID string `json:"id"`
}

func allows(s []string) func(c echo.Context) error {
	return func(c echo.Context) error {
		methods := strings.Join(s, ",")
		c.Response().Header().Set("Allow", methods)
		c.Response().WriteHeader(200)
		return nil
	}
}

// withContextID tags the request context so every log line of one request
// shares an id.
func withContextID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(logger.NewContextid(req.Context())))
		return next(c)
	}
}

func (h *HTTPServe) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"localhost"},
		AllowCredentials: true,
		AllowOriginFunc:  func(_ string) (bool, error) { return true, nil },
		ExposeHeaders:    []string{"Allow"},
	}))
	e.Use(withContextID)

	e.GET("/health", h.health)
	e.GET("/policies", h.policies)
	e.POST("/sessions", h.createSession)
	e.GET("/sessions/:id", h.session)
	e.HEAD("/sessions/:id", allows([]string{"get", "delete"}))
	e.DELETE("/sessions/:id", h.deleteSession)
	e.POST("/sessions/:id/rounds", h.round)
	return e
}

// Serve answers on ln until ctx is done.
func (h *HTTPServe) Serve(ctx context.Context, ln net.Listener) error {
	e := h.Echo()
	e.Listener = ln
	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()
	l_http.Info("serving", zap.Stringer("addr", ln.Addr()))
	if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *HTTPServe) health(c echo.Context) error {
	return c.JSON(200, "OK")
}

func (h *HTTPServe) policies(c echo.Context) error {
	return c.JSON(200, policy.Names())
}

func (h *HTTPServe) createSession(c echo.Context) error {
	cfg := session.Config{Params: policy.DefaultParams()}
	if err := c.Bind(&cfg); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "malformed session config"})
	}
	s, err := h.Sessions.Create(cfg)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, created{ID: s.ID})
}

func (h *HTTPServe) session(c echo.Context) error {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(200, s.Summary())
}

func (h *HTTPServe) deleteSession(c echo.Context) error {
	if err := h.Sessions.Delete(c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HTTPServe) round(c echo.Context) error {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	// body only: the path id must not leak into the snapshot
	var snap domain.Snapshot
	if err := new(echo.DefaultBinder).BindBody(c, &snap); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "malformed snapshot"})
	}
	if err := snap.Validate(); err != nil {
		return h.fail(c, err)
	}
	peers, err := snap.PeerViews()
	if err != nil {
		return h.fail(c, err)
	}

	d, err := s.Decide(snap.ToAgent(), peers, snap.Requests, mem.NewHistory(snap.Downloads...))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(200, d)
}

func (h *HTTPServe) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, policy.ErrUnknownPolicy),
		errors.Is(err, policy.ErrInvalidParams),
		errors.Is(err, policy.ErrUnknownRequester),
		errors.Is(err, domain.ErrInvalidSnapshot):
		status = http.StatusBadRequest
	}
	logger.Ctx(l_http, c.Request().Context()).Info("request failed",
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Error(err))
	return c.JSON(status, errorBody{Error: err.Error()})
}
