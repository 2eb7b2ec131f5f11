// Package sysinfo implements the system peer: it reports properties of the
// local host over GET /system so an inventory can collect them.
package sysinfo

import (
	"context"
	"net/http"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"inventory/internal/config"
	"inventory/internal/httpserve"
	"inventory/internal/logging"
	"inventory/internal/model"
	"inventory/internal/reqid"
	"inventory/internal/stunutil"
	"inventory/internal/system"
)

// Options selects optional, slower property sources.
type Options struct {
	STUNServers []string
	STUNTimeout time.Duration
}

// Collect gathers the local property set.
func Collect(ctx context.Context, opts Options, log *logging.Logger) model.PropertySet {
	props := model.PropertySet{
		"os.name":        runtime.GOOS,
		"os.arch":        runtime.GOARCH,
		"go.version":     runtime.Version(),
		"num.cpu":        strconv.Itoa(runtime.NumCPU()),
		"file.separator": string(os.PathSeparator),
		"path.separator": string(os.PathListSeparator),
		"line.separator": lineSeparator(),
	}
	if host, err := os.Hostname(); err == nil {
		props["host.name"] = host
	}
	if dir, err := os.Getwd(); err == nil {
		props["user.dir"] = dir
	}
	if u, err := user.Current(); err == nil {
		props["user.name"] = u.Username
		props["user.home"] = u.HomeDir
	}
	for k, v := range kernelProperties() {
		props[k] = v
	}

	if len(opts.STUNServers) > 0 {
		m, err := stunutil.Probe(ctx, opts.STUNServers, opts.STUNTimeout)
		if err != nil {
			log.Errorf("stun probe failed: %v", err)
		} else {
			props["net.public.addr"] = m.PublicAddr
			props["net.nat.type"] = m.NATType
		}
	}
	return props
}

func lineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Server serves the local property set.
type Server struct {
	cfg  config.SystemConfig
	log  *logging.Logger
	opts Options
}

// NewServer constructs a system peer.
func NewServer(cfg config.SystemConfig, log *logging.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		opts: Options{
			STUNServers: cfg.STUNServers,
			STUNTimeout: cfg.STUNTimeout(),
		},
	}
}

// Handler returns the HTTP routes of the system peer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+system.Path, s.handleSystem)
	return httpserve.WithRequestID(mux)
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	return httpserve.ListenAndServe(ctx, s.cfg.Listen, s.Handler(), s.log)
}

func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	props := Collect(r.Context(), s.opts, s.log)
	s.log.Debugf("served %d properties req=%s", len(props), reqid.From(r.Context()))
	httpserve.WriteJSON(w, http.StatusOK, props)
}
