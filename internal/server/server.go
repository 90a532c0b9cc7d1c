package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"phantomsync/internal/db"
	"phantomsync/internal/logger"
	"phantomsync/internal/model"
	"phantomsync/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, path string) bool
	Status() model.StatusSnapshot
}

// Server exposes the watch loop's state on a local address.
type Server struct {
	echo       *echo.Echo
	dispatcher Dispatcher
	histRepo   *repository.HistoryRepository
	addr       string
}

func New(dispatcher Dispatcher, addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:       e,
		dispatcher: dispatcher,
		histRepo:   repository.NewHistoryRepository(),
		addr:       addr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/status", s.handleStatus)
	s.echo.GET("/history", s.handleHistory)
	s.echo.POST("/push", s.handlePush)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() {
	go func() {
		logger.Log.Info("status server started",
			zap.String("addr", s.addr))

		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("status server error", zap.Error(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dispatcher.Status())
}

func (s *Server) handleHistory(c echo.Context) error {
	if !db.Enabled() {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "history is disabled"})
	}

	n := 20
	if v := c.QueryParam("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "n must be a positive integer"})
		}
		n = parsed
	}

	histories, err := s.histRepo.GetRecent(n)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, histories)
}

type pushRequest struct {
	Path string `json:"path"`
}

func (s *Server) handlePush(c echo.Context) error {
	var req pushRequest
	if err := c.Bind(&req); err != nil || req.Path == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "path required"})
	}

	found := s.dispatcher.Dispatch(c.Request().Context(), req.Path)
	return c.JSON(http.StatusOK, map[string]any{
		"path":  req.Path,
		"found": found,
	})
}
