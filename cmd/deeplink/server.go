package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// dispatcherState is the body of GET /debug/deeplink.
type dispatcherState struct {
	Pending  string   `json:"pending,omitempty"`
	Handling bool     `json:"handling"`
	Handlers []string `json:"handlers"`
	Mounted  []string `json:"mounted"`
}

func newRouter(s *session) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/debug/deeplink", func(w http.ResponseWriter, _ *http.Request) {
		state := dispatcherState{
			Handling: s.dispatcher.Handling(),
			Handlers: s.dispatcher.IDs(),
			Mounted:  s.stage.Mounted(),
		}
		if link, ok := s.dispatcher.Pending(); ok {
			state.Pending = link.Raw
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(state)
	})

	return r
}
