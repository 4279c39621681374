// Package server exposes the modernization pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"legacy-modernizer/internal/logging"
	"legacy-modernizer/internal/model"
	"legacy-modernizer/internal/store"
)

// DefaultMaxUploadBytes limits an uploaded program to 1MB.
const DefaultMaxUploadBytes = 1 << 20

// PreviewChars is how much generated code /modernize returns.
const PreviewChars = 500

// Analyzer runs the full analysis of one program.
type Analyzer interface {
	AnalyzeSource(ctx context.Context, path, raw string) model.Analysis
}

// RunStore is the read side of the run history.
type RunStore interface {
	List(limit int) ([]*model.Portfolio, error)
	Get(runID string) (*model.Portfolio, error)
}

type Options struct {
	Addr           string
	Engine         string
	MaxUploadBytes int64
}

type Server struct {
	analyzer Analyzer
	runs     RunStore
	opts     Options
	mux      *http.ServeMux
	log      *zap.SugaredLogger
}

// NewServer builds the HTTP API. runs may be nil, in which case the
// history endpoints answer 404.
func NewServer(an Analyzer, runs RunStore, opts Options, log *zap.SugaredLogger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if log == nil {
		log = logging.Nop()
	}
	s := &Server{
		analyzer: an,
		runs:     runs,
		opts:     opts,
		mux:      http.NewServeMux(),
		log:      log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/modernize", s.handleModernize)
	s.mux.HandleFunc("/runs", s.handleRuns)
	s.mux.HandleFunc("/runs/", s.handleRun)
}

func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // generation can be slow
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("server listening", "addr", s.opts.Addr, "engine", s.opts.Engine)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Response helpers
func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnw("failed to encode response", "error", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, status int) {
	s.jsonResponse(w, map[string]string{"error": message}, status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.jsonResponse(w, map[string]string{"status": "healthy", "engine": s.opts.Engine}, http.StatusOK)
}

// ModernizeResponse is the body returned by POST /modernize.
type ModernizeResponse struct {
	ProgramName     string            `json:"program_name"`
	RiskAssessment  model.RiskLevel   `json:"risk_assessment"`
	Complexity      float64           `json:"complexity"`
	Audit           model.AuditResult `json:"audit"`
	Issues          []model.Issue     `json:"issues,omitempty"`
	JavaOutput      string            `json:"java_output"`
	GenerationError string            `json:"generation_error,omitempty"`
}

func (s *Server) handleModernize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		s.uploadError(w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, "multipart field \"file\" is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.uploadError(w, err)
		return
	}
	if !utf8.Valid(content) {
		s.errorResponse(w, "file is not valid UTF-8", http.StatusBadRequest)
		return
	}

	a := s.analyzer.AnalyzeSource(r.Context(), header.Filename, string(content))
	s.log.Infow("modernized upload", "file", header.Filename, "program", a.Fact.Name, "risk", a.Risk, "score", a.Audit.ValidationScore)

	s.jsonResponse(w, ModernizeResponse{
		ProgramName:     a.Fact.Name,
		RiskAssessment:  a.Risk,
		Complexity:      a.Fact.ComplexityScore,
		Audit:           a.Audit,
		Issues:          a.Issues,
		JavaOutput:      preview(a.Generated),
		GenerationError: a.GenerationError,
	}, http.StatusOK)
}

func (s *Server) uploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.errorResponse(w, "upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes", http.StatusRequestEntityTooLarge)
		return
	}
	s.errorResponse(w, "invalid multipart upload: "+err.Error(), http.StatusBadRequest)
}

// preview keeps the first PreviewChars characters and marks the cut.
func preview(code string) string {
	runes := []rune(code)
	if len(runes) > PreviewChars {
		runes = runes[:PreviewChars]
	}
	return string(runes) + "..."
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.runs == nil {
		s.errorResponse(w, "run history is disabled", http.StatusNotFound)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.errorResponse(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := s.runs.List(limit)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type runSummary struct {
		RunID     string        `json:"run_id"`
		Source    string        `json:"source"`
		StartedAt time.Time     `json:"started_at"`
		Summary   model.Summary `json:"summary"`
	}
	out := make([]runSummary, 0, len(runs))
	for _, p := range runs {
		out = append(out, runSummary{RunID: p.RunID, Source: p.Source, StartedAt: p.StartedAt, Summary: p.Summary})
	}
	s.jsonResponse(w, out, http.StatusOK)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/runs/")
	if id == "" {
		s.errorResponse(w, "run ID required", http.StatusBadRequest)
		return
	}
	if s.runs == nil {
		s.errorResponse(w, "run history is disabled", http.StatusNotFound)
		return
	}
	p, err := s.runs.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		s.errorResponse(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, p, http.StatusOK)
}
