package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/nap-audit/internal/audit"
	"github.com/sells-group/nap-audit/internal/match"
	"github.com/sells-group/nap-audit/internal/model"
	"github.com/sells-group/nap-audit/internal/source"
	"github.com/sells-group/nap-audit/internal/store"
)

const (
	maxAuditRecords = 500
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initAudit(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer env.Close()

		api := &server{
			matcher:        env.Matcher,
			processor:      env.Processor,
			store:          env.Store,
			defaultCountry: cfg.Input.DefaultCountry,
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           api.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
			defer cancel()
			return eris.Wrap(srv.Shutdown(shutdownCtx), "server shutdown")
		})
		return g.Wait()
	},
}

// server serves the HTTP API. store may be nil, in which case run history
// endpoints answer 503.
type server struct {
	matcher        *match.Matcher
	processor      *audit.Processor
	store          store.Store
	defaultCountry string
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/match", s.handleMatch)
		r.Post("/audit", s.handleAudit)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchRequest struct {
	Business  model.BusinessRecord  `json:"business"`
	Candidate model.CandidateRecord `json:"candidate"`
}

func (s *server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Business.Name == "" {
		writeError(w, http.StatusBadRequest, "business.name is required")
		return
	}
	writeJSON(w, http.StatusOK, s.matcher.Match(req.Business, req.Candidate))
}

type auditRequest struct {
	Records []model.InputRow `json:"records"`
}

type auditResponse struct {
	RunID   string              `json:"run_id,omitempty"`
	Summary model.Summary       `json:"summary"`
	Results []model.AuditResult `json:"results"`
}

func (s *server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch {
	case len(req.Records) == 0:
		writeError(w, http.StatusBadRequest, "records is required")
		return
	case len(req.Records) > maxAuditRecords:
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d records per request", maxAuditRecords))
		return
	}

	records := source.Records(req.Records, s.defaultCountry)
	outcome, err := runAudit(r.Context(), s.processor, s.store, "api", records)
	if err != nil {
		zap.L().Error("api audit failed", zap.Int("records", len(records)), zap.Error(err))
		if outcome == nil || r.Context().Err() == nil {
			writeError(w, http.StatusInternalServerError, "audit failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, auditResponse{
		RunID:   outcome.RunID,
		Summary: outcome.Summary,
		Results: outcome.Results,
	})
}

func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled")
		return
	}

	filter := store.RunFilter{Status: model.RunStatus(r.URL.Query().Get("status"))}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

type runResponse struct {
	Run     *model.Run          `json:"run"`
	Results []model.AuditResult `json:"results"`
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled")
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		zap.L().Error("get run failed", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get run failed")
		return
	}

	results, err := s.store.ListResults(r.Context(), id)
	if err != nil {
		zap.L().Error("list results failed", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list results failed")
		return
	}
	if results == nil {
		results = []model.AuditResult{}
	}
	writeJSON(w, http.StatusOK, runResponse{Run: run, Results: results})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
