// Package relay implements the same-origin HTTP relay that forwards signed
// consolidation claims to the reward registry.
package relay

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/OpTi9/MENA/config"
	klog "github.com/OpTi9/MENA/internal/log"
	"github.com/rs/zerolog"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// maxUpstreamSize caps the registry response relayed back to the client.
const maxUpstreamSize = 16 << 20

// Server is the relay HTTP server.
type Server struct {
	addr        string
	registryURL string
	userAgent   string
	upstream    *http.Client
	server      *http.Server
	logger      zerolog.Logger
	ln          net.Listener
	allowedNets []*net.IPNet // Empty = allow all.
	corsOrigins []string     // Empty = no CORS headers.
	maxUpstream int64
	now         func() time.Time
}

// New creates a relay server listening on addr. cfg controls the upstream
// registry, IP filtering and CORS.
func New(addr string, cfg config.RelayConfig) *Server {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	s := &Server{
		addr:        addr,
		registryURL: strings.TrimRight(cfg.RegistryURL, "/"),
		userAgent:   userAgent,
		upstream:    &http.Client{Timeout: timeout},
		logger:      klog.Relay,
		allowedNets: parseAllowedIPs(cfg.AllowedIPs),
		corsOrigins: cfg.CORSOrigins,
		maxUpstream: maxUpstreamSize,
		now:         time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/consolidate", s.handleConsolidate)
	mux.HandleFunc("/api/template", s.handleTemplate)

	s.server = &http.Server{
		Handler:      s.filter(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: timeout + 30*time.Second,
	}
	return s
}

// Handler returns the relay's HTTP handler, including IP filtering and CORS.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// parseAllowedIPs converts string IP/CIDR entries into net.IPNet.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		_, ipNet, err := net.ParseCIDR(entry)
		if err == nil {
			nets = append(nets, ipNet)
			continue
		}
		// Single IP: /32 or /128.
		ip := net.ParseIP(entry)
		if ip == nil {
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// Start begins listening and serving in a background goroutine.
// It returns immediately after the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("relay listen: %w", err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Relay server error")
		}
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Str("registry", s.registryURL).Msg("Relay listening")
	return nil
}

// Addr returns the listener address (useful when bound to :0).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// filter applies IP filtering, CORS headers and preflight handling.
func (s *Server) filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.allowedNets) > 0 {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			ip := net.ParseIP(host)
			if ip == nil || !s.isIPAllowed(ip) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		if s.setCORSHeaders(w, r) && r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isIPAllowed checks if the IP is in the allowed networks list.
func (s *Server) isIPAllowed(ip net.IP) bool {
	for _, n := range s.allowedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// setCORSHeaders adds CORS headers when the request origin is allowed and
// reports whether it was.
func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) bool {
	if len(s.corsOrigins) == 0 {
		return false
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	for _, o := range s.corsOrigins {
		if o == "*" || o == origin {
			w.Header().Set("Access-Control-Allow-Origin", o)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			return true
		}
	}
	return false
}
