// Package server 提供报告的 HTTP 接口：上传项目、生成代码建议、审阅并下载文档。
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ByLCY/codedoc/generate"
	"github.com/ByLCY/codedoc/pipeline"
)

// Options configures the HTTP server.
type Options struct {
	// Template 为分析提示词模板，空值使用默认模板。
	Template     string
	MaxBodyBytes int64
	// CallTimeout 为单次生成调用的超时，分析接口据此按文件数放宽写超时。
	CallTimeout time.Duration
}

// Server is the HTTP API server for codedoc.
type Server struct {
	router   chi.Router
	store    *Store
	pipeline *pipeline.Pipeline
	gen      generate.Generator
	log      *zap.Logger
	opts     Options
}

// NewServer creates and configures the HTTP server. gen 可以为 nil，此时分析接口返回 503。
func NewServer(pl *pipeline.Pipeline, gen generate.Generator, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	s := &Server{
		store:    NewStore(),
		pipeline: pl,
		gen:      gen,
		log:      log,
		opts:     opts,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Store exposes the in-memory project store.
func (s *Server) Store() *Store { return s.store }

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/api/render", s.handleRender)

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Delete("/", s.handleDeleteProject)
			r.Get("/document", s.handleProjectDocument)
			r.Post("/query", s.handleQuery)
			r.Route("/versions/{version}", func(r chi.Router) {
				r.Post("/analyze", s.handleAnalyze)
				r.Post("/review", s.handleReview)
				r.Post("/finalize", s.handleFinalize)
			})
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
