package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/warden/internal/api"
	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/internal/infrastructure"
	"github.com/JaimeStill/warden/pkg/handlers"
	"github.com/JaimeStill/warden/pkg/lifecycle"
	"github.com/JaimeStill/warden/pkg/module"
)

const readinessTimeout = 2 * time.Second

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

type readiness struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database,omitempty"`
	Hooks    []lifecycle.HookStatus `json:"hooks"`
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		body := readiness{Status: "ready", Hooks: infra.Lifecycle.Status()}

		if !infra.Lifecycle.Ready() {
			body.Status = "not ready"
			handlers.RespondJSON(w, http.StatusServiceUnavailable, body)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := infra.Database.Ping(ctx); err != nil {
			body.Status = "degraded"
			body.Database = err.Error()
			handlers.RespondJSON(w, http.StatusServiceUnavailable, body)
			return
		}

		handlers.RespondJSON(w, http.StatusOK, body)
	})

	if cfg.Metrics.On() {
		metrics := promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{Registry: infra.Registry})
		router.HandleNative("GET "+cfg.Metrics.Path, metrics.ServeHTTP)
	}

	return router
}
