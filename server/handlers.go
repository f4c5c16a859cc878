package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ByLCY/codedoc/generate"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
	"github.com/ByLCY/codedoc/renderer"
)

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := renderer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := s.readProject(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, p, format)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"projects": s.store.Names()})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.readProject(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(p.Title) == "" {
		jsonError(w, "project title is required", http.StatusBadRequest)
		return
	}
	s.store.Put(p)
	s.log.Info("project stored", zap.String("project", p.Title), zap.Int("versions", len(p.Versions)))
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	err := s.store.With(chi.URLParam(r, "name"), func(p *project.Project) error {
		writeJSON(w, http.StatusOK, p)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
	}
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(chi.URLParam(r, "name")) {
		jsonError(w, "project not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectDocument(w http.ResponseWriter, r *http.Request) {
	format, err := renderer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = s.store.With(chi.URLParam(r, "name"), func(p *project.Project) error {
		s.writeDocument(w, p, format)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
	}
}

type analyzeRequest struct {
	Prompt string `json:"prompt"`
}

type analyzeResponse struct {
	generate.Summary
	Pending []string `json:"pending"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		jsonError(w, "no generator configured", http.StatusServiceUnavailable)
		return
	}
	var req analyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var resp analyzeResponse
	err := s.store.With(chi.URLParam(r, "name"), func(p *project.Project) error {
		v, err := p.MustVersion(chi.URLParam(r, "version"))
		if err != nil {
			return err
		}
		s.extendWriteDeadline(w, len(v.Code))
		sum, err := generate.Analyze(r.Context(), s.gen, v, generate.AnalyzeOptions{
			Prompt:   req.Prompt,
			Template: s.opts.Template,
			Logger:   s.log,
		})
		if err != nil {
			return err
		}
		resp = analyzeResponse{Summary: sum, Pending: v.Pending()}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type reviewRequest struct {
	File     string `json:"file"`
	Decision string `json:"decision"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	decision, err := project.ParseDecision(req.Decision)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var sug project.Suggestion
	err = s.store.With(chi.URLParam(r, "name"), func(p *project.Project) error {
		v, err := p.MustVersion(chi.URLParam(r, "version"))
		if err != nil {
			return err
		}
		if err := v.Review(req.File, decision); err != nil {
			return err
		}
		sug = *v.Suggestion(req.File)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sug)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var applied []string
	err := s.store.With(chi.URLParam(r, "name"), func(p *project.Project) error {
		v, err := p.MustVersion(chi.URLParam(r, "version"))
		if err != nil {
			return err
		}
		applied = v.Finalize()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if applied == nil {
		applied = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": applied})
}

type queryRequest struct {
	Prompt         string `json:"prompt"`
	IncludeContext bool   `json:"includeContext"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		jsonError(w, "no generator configured", http.StatusServiceUnavailable)
		return
	}
	var req queryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var ans generate.Answer
	err := s.store.With(chi.URLParam(r, "name"), func(p *project.Project) error {
		s.extendWriteDeadline(w, 1)
		var err error
		ans, err = generate.Query(r.Context(), s.gen, generate.QueryOptions{
			Prompt:         req.Prompt,
			Project:        p,
			IncludeContext: req.IncludeContext,
			Logger:         s.log,
		})
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

// extendWriteDeadline 按远程调用次数放宽本次响应的写超时。
func (s *Server) extendWriteDeadline(w http.ResponseWriter, calls int) {
	if s.opts.CallTimeout <= 0 {
		return
	}
	deadline := time.Now().Add(time.Duration(calls+1) * s.opts.CallTimeout)
	if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil {
		s.log.Debug("write deadline not extended", zap.Error(err))
	}
}

// readProject 读取请求体中的项目：JSON 请求体按项目结构解码，其余按报告源文件解析。
func (s *Server) readProject(w http.ResponseWriter, r *http.Request) (*project.Project, error) {
	if isJSON(r) {
		var p project.Project
		if err := s.decodeJSON(w, r, &p); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return &p, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: 读取请求体失败: %w", layout.ErrInvalidArgument, err)
	}
	return project.Load(bytes.NewReader(body), project.LoadOptions{})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", layout.ErrInvalidArgument, err)
	}
	return nil
}

func (s *Server) writeDocument(w http.ResponseWriter, p *project.Project, format renderer.Format) {
	data, res, err := s.pipeline.Render(p, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Debug("document rendered",
		zap.String("project", p.Title),
		zap.String("format", format.Name),
		zap.Int("pages", len(res.Pages)),
		zap.Int("bytes", len(data)))

	w.Header().Set("Content-Type", format.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="documentation%s"`, format.Extension))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// writeError 按错误类别映射状态码。
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var remote *generate.RemoteCallError
	switch {
	case errors.Is(err, layout.ErrInvalidArgument):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, project.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &remote):
		jsonError(w, err.Error(), http.StatusBadGateway)
	default:
		s.log.Error("request failed", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
