package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trezcool/shule/apps/di"
	"github.com/trezcool/shule/core"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Services   *di.Services
		Validate   *validator.Validate
		Translator ut.Translator
		Registerer prometheus.Registerer // nil: a private registry
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		jwt      middleware.JWTConfig
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		jwt:      newJWTConfig(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf
	reg := s.deps.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(newMetrics(reg).middleware())
	s.app.Use(versionMiddleware(conf.Build))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.jwt)
	svcs := s.deps.Services

	// un-authed endpoints
	v1.GET("/auth/status", s.authStatus)
	registerUserAPI(v1, jwt, s)
	registerClassroomAPI(v1, jwt, svcs.Classroom)

	ag := v1.Group("", jwt)

	// school structure
	registerResource(ag, svcs.AcademicYears)
	registerResource(ag, svcs.Schools)
	registerResource(ag, svcs.SchoolSections)
	registerResource(ag, svcs.Stages)
	registerResource(ag, svcs.Grades)
	registerResource(ag, svcs.Classrooms)
	registerResource(ag, svcs.Semesters)
	registerResource(ag, svcs.SemesterTests)
	registerResource(ag, svcs.PeriodDetails)
	registerResource(ag, svcs.Subjects)
	registerResource(ag, svcs.Staff)

	// behaviors, assignments and content
	registerResource(ag, svcs.Behaviors)
	registerResource(ag, svcs.ClassroomRecords)
	registerTimetableAPI(ag, svcs.Importer)
	registerResource(ag, svcs.Assignments)
	registerResource(ag, svcs.ProjectTasks)
	registerResource(ag, svcs.QuestionTypes)
	registerVocabAPI(ag, svcs.Vocabularies)

	// planner
	api := plannerApi{svc: svcs.Planner}
	registerResource(ag, svcs.Tasks)
	registerResource(ag, svcs.DailyTasks, withList(api.listDaily))
	registerResource(ag, svcs.FocusLogs)
	registerPlannerAPI(ag, api)

	registerTreeAPI(ag, svcs.Tree)
	registerVideoAPI(ag, svcs.Videos, conf.Videos.MaxBytes)
}

// Start serves until the server is shut down. Any other failure is sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Wrap(s.app.Shutdown(ctx), "shutting down server")
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
