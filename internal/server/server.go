package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/ieti-edutrack/apiserver/config"
	"github.com/ieti-edutrack/apiserver/internal/activity"
	"github.com/ieti-edutrack/apiserver/internal/db"
	"github.com/ieti-edutrack/apiserver/internal/handlers"
	"github.com/ieti-edutrack/apiserver/internal/mq"
	"github.com/ieti-edutrack/apiserver/internal/services"
	"github.com/ieti-edutrack/apiserver/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sqlx.DB
	mq         *mq.MQ
	logger     zerolog.Logger
}

// New opens the database and message broker and constructs a Server.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	broker, err := mq.Connect(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	return NewWithDeps(cfg, dbConn, broker, logger), nil
}

// NewWithDeps constructs a Server around an already opened database and an
// optional broker. broker may be nil.
func NewWithDeps(cfg config.Config, dbConn *sqlx.DB, broker *mq.MQ, logger zerolog.Logger) *Server {
	var publisher services.ActivityPublisher
	if broker != nil {
		publisher = mq.NewActivityPublisher(broker, cfg.MQ.ActivityChannel)
	}

	activities := services.NewActivityService(activity.NewLog(activity.DefaultCapacity), publisher, logger)
	accountService := services.NewAccountService(
		store.NewTeacherRepository(dbConn),
		store.NewStudentRepository(dbConn),
		activities,
		cfg.Accounts,
		validator.New(validator.WithRequiredStructEnabled()),
		logger,
	)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(logger),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}),
	)
	router.Get("/healthz", handlers.Healthz(dbConn))
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, accountService)
		r.Route("/admin", func(r chi.Router) {
			handlers.AdminRouter(r, accountService)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		mq:         broker,
		logger:     logger,
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the broker and the
// database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	errs := []error{s.httpServer.Shutdown(ctx)}
	if s.mq != nil {
		errs = append(errs, s.mq.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
