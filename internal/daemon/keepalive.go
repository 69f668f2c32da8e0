package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pheme/internal/logging"
)

// keepalive answers health probes so hosting platforms keep the process
// alive between sweeps.
type keepalive struct {
	server *http.Server
	logger *slog.Logger
}

func newKeepalive(bind string, logger *slog.Logger) *keepalive {
	mux := http.NewServeMux()
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}
	mux.HandleFunc("/", handler)
	mux.HandleFunc("/healthz", handler)

	return &keepalive{
		server: &http.Server{
			Addr:              bind,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (k *keepalive) start() {
	go func() {
		if err := k.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			k.logger.Error("keepalive server failed", logging.Args(logging.Error(err))...)
		}
	}()
}

func (k *keepalive) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = k.server.Shutdown(ctx)
}
