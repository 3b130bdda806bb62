// Package server is the HTTP front door: one endpoint per agent, a JSON
// message contract, and request-scoped logging. No authentication at this
// layer.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jmakkonen/salespilot/agent/agents/orchestrator"
	contractx "github.com/jmakkonen/salespilot/agent/contract"
	emailx "github.com/jmakkonen/salespilot/agent/email"
)

type Config struct {
	Addr         string        `split_words:"true" default:":8000"`
	ReadTimeout  time.Duration `split_words:"true" default:"30s"`
	WriteTimeout time.Duration `split_words:"true" default:"120s"`
}

// messageRequest is the uniform inbound shape for every agent endpoint.
type messageRequest struct {
	Message string `json:"message"`
}

// messageResponse carries either prose or a structured widget payload in
// the message field.
type messageResponse struct {
	Message any `json:"message"`
}

type Server struct {
	cfg          Config
	orchestrator *orchestrator.Orchestrator
	registry     contractx.Registry
	widget       contractx.DomainAgent
	drafter      *emailx.Drafter
}

func New(cfg Config, orch *orchestrator.Orchestrator, registry contractx.Registry, widget contractx.DomainAgent, drafter *emailx.Drafter) (*Server, error) {
	if orch == nil {
		return nil, errors.New("orchestrator is required")
	}
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}
	return &Server{
		cfg:          cfg,
		orchestrator: orch,
		registry:     registry,
		widget:       widget,
		drafter:      drafter,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/orchestrator_agent", s.handleOrchestrator)
	mux.HandleFunc("/hubspot_agent", s.handleDomainAgent(func() contractx.DomainAgent { return s.registry.CRM() }))
	mux.HandleFunc("/gmail_agent", s.handleDomainAgent(func() contractx.DomainAgent { return s.registry.Mail() }))
	mux.HandleFunc("/slack_agent", s.handleDomainAgent(func() contractx.DomainAgent { return s.registry.Chat() }))
	mux.HandleFunc("/calendar_agent", s.handleDomainAgent(func() contractx.DomainAgent { return s.registry.Calendar() }))
	mux.HandleFunc("/data_agent", s.handleDomainAgent(func() contractx.DomainAgent { return s.registry.Research() }))
	mux.HandleFunc("/ui_agent", s.handleUI)
	mux.HandleFunc("/draft_email", s.handleDraftEmail)

	return withRequestID(withCORS(withAccessLog(mux)))
}

func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOrchestrator(w http.ResponseWriter, r *http.Request) {
	s.handleMessage(w, r, func(r *http.Request, message string) (contractx.AgentReply, error) {
		return s.orchestrator.Route(r.Context(), contractx.Request{Text: message, Channel: contractx.ChannelAPI})
	})
}

func (s *Server) handleDomainAgent(pick func() contractx.DomainAgent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.handleMessage(w, r, func(r *http.Request, message string) (contractx.AgentReply, error) {
			return pick().Invoke(r.Context(), message)
		})
	}
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	if s.widget == nil {
		writeError(w, http.StatusServiceUnavailable, "ui agent is not configured")
		return
	}
	s.handleMessage(w, r, func(r *http.Request, message string) (contractx.AgentReply, error) {
		return s.widget.Invoke(r.Context(), message)
	})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request, invoke func(*http.Request, string) (contractx.AgentReply, error)) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with a message field")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := invoke(r, req.Message)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("path", r.URL.Path).Msg("agent invocation failed")
		writeError(w, http.StatusInternalServerError, "agent invocation failed")
		return
	}

	if reply.IsStructured() {
		writeJSON(w, http.StatusOK, messageResponse{Message: reply.Payload})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: reply.Message})
}

// draftEmailRequest exposes the drafting specialist directly, bypassing the
// orchestrator for callers that already know the recipient and intent.
type draftEmailRequest struct {
	Recipient          string         `json:"recipient"`
	Intent             string         `json:"intent"`
	ContactInfo        map[string]any `json:"contact_info,omitempty"`
	CompanyInfo        map[string]any `json:"company_info,omitempty"`
	CRMContext         map[string]any `json:"crm_context,omitempty"`
	EmailType          string         `json:"email_type,omitempty"`
	CustomInstructions string         `json:"custom_instructions,omitempty"`
}

func (s *Server) handleDraftEmail(w http.ResponseWriter, r *http.Request) {
	if s.drafter == nil {
		writeError(w, http.StatusServiceUnavailable, "email drafter is not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req draftEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}

	draft, err := s.drafter.DraftEmail(r.Context(), emailx.DraftRequest{
		Recipient:          req.Recipient,
		Intent:             req.Intent,
		ContactInfo:        req.ContactInfo,
		CompanyInfo:        req.CompanyInfo,
		CRMContext:         req.CRMContext,
		EmailType:          emailx.EmailType(req.EmailType),
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("email drafting failed")
		writeError(w, http.StatusInternalServerError, "email drafting failed")
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

/* ------------------------------- middleware ------------------------------ */

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Str("request_id", rec.Header().Get("X-Request-Id")).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

/* --------------------------------- output -------------------------------- */

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("encode response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
