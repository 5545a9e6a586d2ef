package server

import (
	"context"
	"database/sql"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/pkg/result"
)

// Query is a named, preconfigured statement the server is willing to
// execute on behalf of clients.
type Query struct {
	Name string `json:"name"`
	SQL  string `json:"sql"`

	resultOpts []result.Option
}

type Server struct {
	logger *zap.Logger
	db     *sql.DB

	mu      sync.RWMutex
	queries map[string]Query
}

func New(db *sql.DB, logger *zap.Logger) *Server {
	return &Server{
		logger:  logger,
		db:      db,
		queries: make(map[string]Query),
	}
}

// RegisterQuery exposes a named query over the API. Result options
// control the key style and processors of the rows it returns.
func (s *Server) RegisterQuery(name, query string, opts ...result.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries[name] = Query{
		Name:       name,
		SQL:        query,
		resultOpts: opts,
	}
	s.logger.Info("query registered", zap.String("name", name))
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", s.health)

	r.Route("/api/v1/queries", func(r chi.Router) {
		r.Get("/", s.listQueries)
		r.Get("/{name}", s.executeQuery)
	})

	return r
}

func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	s.logger.Info("starting query server", zap.String("addr", addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down query server")
		srv.Shutdown(context.Background())
	}()

	return srv.ListenAndServe()
}
