package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// startDebugListener serves Prometheus metrics and a health probe on a local
// address. Opt-in via telemetry.debugaddr; mainly for long-running `watch`
// sessions under a supervisor.
func startDebugListener(addr string) {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"service": "barbearia-client",
			"version": version,
		})
	}).Methods(http.MethodGet)

	go func() {
		if err := http.ListenAndServe(addr, r); err != nil {
			logger.Warn("debug listener stopped", "error", err)
		}
	}()
}
