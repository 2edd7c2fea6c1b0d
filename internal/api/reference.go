package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/warden/annex"
	"github.com/JaimeStill/warden/pkg/handlers"
	"github.com/JaimeStill/warden/pkg/openapi"
	"github.com/JaimeStill/warden/pkg/routes"
	"github.com/JaimeStill/warden/risk"
)

// Reference is the payload of GET /reference.
type Reference struct {
	risk.Tables
	AnnexSections []string       `json:"annex_sections"`
	ExportFormats []annex.Format `json:"export_formats"`
}

func referenceRoutes(logger *slog.Logger) routes.Group {
	logger = logger.With("handler", "reference")

	return routes.Group{
		Prefix: "/reference",
		Tags:   []string{"Reference"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: handleReference, OpenAPI: referenceSpec},
			{Method: "GET", Pattern: "/obligations/{id}", Handler: obligationTemplate(logger), OpenAPI: obligationTemplateSpec},
		},
		Schemas: map[string]*openapi.Schema{
			"Reference": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"version":              {Type: "string", Example: risk.RulesVersion},
					"domains":              {Type: "array", Items: &openapi.Schema{Type: "object"}},
					"prohibited":           {Type: "array", Items: &openapi.Schema{Type: "string"}},
					"transparency":         {Type: "array", Items: &openapi.Schema{Type: "string"}},
					"population":           {Type: "array", Items: &openapi.Schema{Type: "object"}},
					"autonomy":             {Type: "array", Items: &openapi.Schema{Type: "object"}},
					"sensitivity_keywords": {Type: "array", Items: &openapi.Schema{Type: "string"}},
					"obligations":          {Type: "object"},
					"colorado":             {Type: "array", Items: &openapi.Schema{Type: "object"}},
					"annex_sections":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
					"export_formats":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
				},
			},
		},
	}
}

var referenceSpec = &openapi.Operation{
	Summary:     "Reference tables",
	Description: "Keyword tables, score rules and obligation templates used by the classifier, stamped with the rules version.",
	Responses:   openapi.Responses(200, openapi.ResponseJSON("Reference tables", "Reference")),
}

var obligationTemplateSpec = &openapi.Operation{
	Summary:     "Obligation template",
	Description: "Looks up an EU or Colorado obligation template by id, such as ho or co-appeal.",
	Parameters:  []*openapi.Parameter{openapi.TypedPathParam("id", "string", "Obligation id")},
	Responses:   openapi.Responses(200, &openapi.Response{Description: "Obligation template"}, 404),
}

func obligationTemplate(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		o, ok := risk.FindObligation(id)
		if !ok {
			handlers.RespondError(w, logger, http.StatusNotFound, fmt.Errorf("%w: %s", risk.ErrUnknownObligation, id))
			return
		}
		handlers.RespondJSON(w, http.StatusOK, o)
	}
}

func handleReference(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Reference{
		Tables:        risk.Snapshot(),
		AnnexSections: annex.Titles(),
		ExportFormats: annex.Formats(),
	})
}
