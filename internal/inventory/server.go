package inventory

import (
	"context"
	"net/http"

	"inventory/internal/api"
	"inventory/internal/config"
	"inventory/internal/fault"
	"inventory/internal/httpserve"
	"inventory/internal/logging"
	"inventory/internal/model"
	"inventory/internal/reqid"
	"inventory/internal/store"
	"inventory/internal/system"
)

// Server provides the inventory HTTP API.
type Server struct {
	cfg      config.InventoryConfig
	port     string
	log      *logging.Logger
	registry *store.Registry
	fetch    fault.Guarded
}

// NewServer constructs an inventory server with an empty registry.
func NewServer(cfg config.InventoryConfig, log *logging.Logger) *Server {
	fetcher := system.NewFetcher(cfg.FetchTimeout())
	return newServer(cfg, log, fetcher.Fetch)
}

func newServer(cfg config.InventoryConfig, log *logging.Logger, fetch fault.FetchFunc) *Server {
	s := &Server{
		cfg:      cfg,
		port:     cfg.Port(),
		log:      log,
		registry: store.NewRegistry(),
	}
	s.fetch = fault.Fallback(
		fault.Retry(s.logAttempt(fetch), fault.RetryOptions{
			MaxRetries: cfg.Retries(),
			Delay:      cfg.RetryDelay(),
			RetryOn:    system.IsRetryable,
		}),
		s.fallback,
	)
	return s
}

// Registry exposes the server's inventory.
func (s *Server) Registry() *store.Registry {
	return s.registry
}

// Handle fetches the properties of hostname and registers them. A
// fallback result is returned as is and never registered.
func (s *Server) Handle(ctx context.Context, hostname string) fault.Result {
	res := s.fetch(ctx, hostname, s.port)
	if res.Fallback {
		return res
	}
	s.registry.Add(hostname, res.Properties)
	s.log.Infof("registered system host=%s properties=%d req=%s", hostname, len(res.Properties), reqid.From(ctx))
	return res
}

// Handler returns the HTTP routes of the inventory.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /systems/{hostname}", s.handleProperties)
	mux.HandleFunc("GET /systems", s.handleList)
	mux.HandleFunc("POST /systems/reset", s.handleReset)
	mux.HandleFunc("GET /health", s.handleHealth)
	return httpserve.WithRequestID(mux)
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log.Infof("inventory contacting systems on port %s (retries=%d timeout=%s)", s.port, s.cfg.Retries(), s.cfg.FetchTimeout())
	return httpserve.ListenAndServe(ctx, s.cfg.Listen, s.Handler(), s.log)
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	hostname := r.PathValue("hostname")
	res := s.Handle(r.Context(), hostname)
	if res.Fallback {
		w.Header().Set(api.HeaderFallback, "yes")
		if res.Reason != "" {
			w.Header().Set(api.HeaderFallbackReason, res.Reason)
		}
	}
	httpserve.WriteJSON(w, http.StatusOK, res.Properties)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	httpserve.WriteJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.registry.Reset()
	s.log.Infof("inventory reset req=%s", reqid.From(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpserve.WriteJSON(w, http.StatusOK, api.HealthResponse{Status: "ok", Systems: s.registry.Len()})
}

func (s *Server) logAttempt(fetch fault.FetchFunc) fault.FetchFunc {
	return func(ctx context.Context, hostname, port string) (model.PropertySet, error) {
		props, err := fetch(ctx, hostname, port)
		if err != nil {
			s.log.Debugf("fetch failed host=%s port=%s req=%s: %v", hostname, port, reqid.From(ctx), err)
		}
		return props, err
	}
}

func (s *Server) fallback(hostname string, err error) fault.Result {
	res := fault.ErrorFallback(system.Reason)(hostname, err)
	s.log.Errorf("fallback host=%s reason=%s: %v", hostname, res.Reason, err)
	return res
}
