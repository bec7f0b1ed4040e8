package salestrack

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	server *http.Server
)

// Routes returns the HTTP handler for every endpoint.
func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern, path string, h http.HandlerFunc) {
		mux.Handle(pattern, a.Metrics.Instrument(path, h))
	}
	handle("GET /api/health", "/api/health", a.handleHealth)
	handle("GET /api/agents", "/api/agents", a.handleAgents)
	handle("GET /api/agents/{id}", "/api/agents/{id}", a.handleAgent)
	handle("GET /api/agents/{id}/path", "/api/agents/{id}/path", a.handlePath)
	handle("GET /api/agents/{id}/position.pb", "/api/agents/{id}/position.pb", a.handleAgentPositionPB)
	handle("GET /api/vehicle-positions.pb", "/api/vehicle-positions.pb", a.handleVehiclePositionsPB)
	handle("GET /api/siri/vehicle-monitoring.json", "/api/siri/vehicle-monitoring.json", a.handleVehicleMonitoringJSON)
	handle("GET /api/siri/vehicle-monitoring.xml", "/api/siri/vehicle-monitoring.xml", a.handleVehicleMonitoringXML)
	// Websocket sessions are long-lived; keep them out of the duration histogram.
	mux.HandleFunc("GET /api/agents/{id}/playback", a.handlePlayback)
	mux.Handle("GET /metrics", a.Metrics.Handler())
	return mux
}

// StartServer starts listening on the configured port in the background.
func StartServer(a *App) {
	addr := fmt.Sprintf(":%d", a.Cfg.Server.Port)
	server = &http.Server{
		Addr:              addr,
		Handler:           a.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then calls stop and
// shuts the server down.
func HandleGracefulShutdown(stop context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	if stop != nil {
		stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
}
