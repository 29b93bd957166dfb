package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"llm_grammar_checker/checker"
	"llm_grammar_checker/config"
	"llm_grammar_checker/render"
)

// ClientFactory builds an LLM client for a provider and API key.
// checker.Providers is the production implementation.
type ClientFactory interface {
	Client(provider, apiKey string) (checker.LLMClient, error)
}

type Server struct {
	clients  ClientFactory
	cfg      *config.Config
	log      *slog.Logger
	validate *validator.Validate
	version  string
}

func New(clients ClientFactory, cfg *config.Config, log *slog.Logger, version string) (*Server, error) {
	if clients == nil {
		return nil, errors.New("client factory required")
	}
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		clients:  clients,
		cfg:      cfg,
		log:      log,
		validate: validator.New(),
		version:  version,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /check_grammar", s.handleCheckGrammar)
	mux.HandleFunc("POST /render", s.handleRender)
	if s.cfg.Metrics.Enabled {
		mux.Handle("GET "+s.cfg.Metrics.Path, promhttp.Handler())
	}

	return Chain(
		RequestID,
		Logger(s.log),
		Recovery(s.log),
		CORS(s.cfg.CORS),
	)(mux)
}

// --- Handlers ---

// checkReq accepts both the minimal {"text"} body and the extended one with
// provider, model, key and suggestionType. Omitted fields fall back to config.
type checkReq struct {
	Text           string `json:"text" validate:"required"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	Key            string `json:"key"`
	SuggestionType string `json:"suggestionType"`
}

type renderReq struct {
	Text string `json:"text" validate:"required"`
	checker.SuggestionResponse
}

type healthResp struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Hello": "World"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{Status: "ok", Version: s.version})
}

func (s *Server) handleCheckGrammar(w http.ResponseWriter, r *http.Request) {
	var req checkReq
	if !s.decode(w, r, &req) {
		return
	}

	provider := firstNonEmpty(req.Provider, s.cfg.LLM.DefaultProvider)
	model := firstNonEmpty(req.Model, s.cfg.LLM.DefaultModel)
	key := firstNonEmpty(req.Key, s.cfg.LLM.APIKey)

	task, err := checker.ParseTask(req.SuggestionType)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.InfoContext(r.Context(), "check requested",
		slog.String("provider", provider),
		slog.String("model", model),
		slog.String("task", string(task)),
		slog.Int("text_bytes", len(req.Text)),
	)

	client, err := s.clients.Client(provider, key)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	agent, err := checker.NewAgent(client, s.log)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.LLM.Timeout)
	defer cancel()
	resp, err := agent.Check(ctx, req.Text, model, task)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderReq
	if !s.decode(w, r, &req) {
		return
	}
	out, err := render.HTML(req.Text, req.SuggestionResponse)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// --- Helpers ---

// decode reads a JSON body into v and validates it, writing the error
// response itself when it returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

// fail maps checker errors onto HTTP statuses. A failed check never carries
// partial suggestions.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, checker.ErrConfiguration):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, checker.ErrUpstreamCall), errors.Is(err, checker.ErrUpstreamFormat):
		status = http.StatusBadGateway
	}
	s.log.WarnContext(r.Context(), "request failed",
		slog.Int("status", status),
		slog.Any("error", err),
		slog.String("request_id", RequestIDFromCtx(r.Context())),
	)
	writeError(w, status, err.Error())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
