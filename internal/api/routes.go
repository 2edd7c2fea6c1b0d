package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/pkg/openapi"
	"github.com/JaimeStill/warden/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	maxBody := cfg.API.MaxBodySizeBytes()

	groups := []routes.Group{
		domain.Systems.Handler(maxBody).Routes(),
		domain.Classifications.Handler(maxBody).Routes(),
		domain.Obligations.Handler(maxBody).Routes(),
		domain.Documents.Handler(maxBody).Routes(),
		domain.Conformity.Handler(maxBody).Routes(),
		domain.Audit.Handler(maxBody).Routes(),
		newExportsHandler(runtime.Storage, runtime.Audit, runtime.Logger, cfg.Storage.MaxListSize).routes(),
		referenceRoutes(runtime.Logger),
	}

	routes.Register(mux, groups...)

	spec := buildSpec(cfg, groups)

	jsonDoc, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	yamlDoc, err := openapi.MarshalYAML(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec as yaml: %w", err)
	}

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(jsonDoc, openapi.ContentTypeJSON))
	mux.HandleFunc("GET /openapi.yaml", openapi.ServeSpec(yamlDoc, openapi.ContentTypeYAML))

	return nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.API.OpenAPI.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	routes.Document(spec, "", groups...)
	return spec
}
