package echo

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	echofw "github.com/labstack/echo/v4"
	"github.com/mirola777/payhook/internal/application"
	"github.com/mirola777/payhook/internal/utils/config"
	"go.uber.org/zap"
)

type Server struct {
	echo      *echofw.Echo
	config    *config.Config
	container *application.Container
	log       *zap.Logger
}

func NewServer(cfg *config.Config, container *application.Container, log *zap.Logger) *Server {
	e := echofw.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	ConfigureRoutes(e, container, cfg, log)

	return &Server{
		echo:      e,
		config:    cfg,
		container: container,
		log:       log,
	}
}

func (s *Server) Echo() *echofw.Echo {
	return s.echo
}

// Start serves until SIGINT or SIGTERM, then stops accepting requests before
// draining background notifications. The channel closes once shutdown is
// complete.
func (s *Server) Start() <-chan error {
	errC := make(chan error, 2)

	go func() {
		if err := s.echo.Start(":" + s.config.AppPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
		<-quit

		s.log.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), s.config.GracefulTimeout)
		defer cancel()

		if err := s.echo.Shutdown(ctx); err != nil {
			errC <- err
		}
		if err := s.container.Shutdown(ctx); err != nil {
			errC <- err
		}
		close(errC)
	}()

	s.log.Info("server started", zap.String("port", s.config.AppPort))
	return errC
}
