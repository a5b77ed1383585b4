package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/onflow/corruptible-validator/module/component"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
)

const (
	metricsEndpoint = "/metrics"
	shutdownTimeout = 5 * time.Second
)

// Server serves the collectors of a registry on /metrics. It stops when the
// context it was started with is cancelled.
type Server struct {
	*component.ComponentManager
	log    zerolog.Logger
	server *http.Server
}

var _ component.Component = (*Server)(nil)

func NewServer(log zerolog.Logger, address string, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle(metricsEndpoint, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s := &Server{
		log:    log.With().Str("component", "metrics_server").Str("address", address).Logger(),
		server: &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 10 * time.Second},
	}
	s.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(s.serve).
		Build()
	return s
}

func (s *Server) serve(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		ctx.Throw(err)
	}
	ready()
	s.log.Info().Str("endpoint", metricsEndpoint).Msg("metrics server started")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	err = s.server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		s.log.Debug().Msg("metrics server shutdown")
		return
	}
	// a broken metrics endpoint does not stop the node
	s.log.Err(err).Msg("metrics server failed")
}
