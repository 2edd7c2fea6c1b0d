package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/pkg/openapi"
	"github.com/JaimeStill/warden/pkg/routes"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func sampleGroup() routes.Group {
	return routes.Group{
		Prefix: "/systems",
		Tags:   []string{"Systems"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok, OpenAPI: &openapi.Operation{Summary: "List systems"}},
			{Method: "GET", Pattern: "/{id}", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Find system"}},
			{Method: "DELETE", Pattern: "/{id}", Handler: ok},
		},
		Children: []routes.Group{{
			Prefix: "/exports",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/{key...}", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Export"}},
			},
		}},
		Schemas: map[string]*openapi.Schema{"System": {Type: "object"}},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, sampleGroup())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/systems", http.StatusOK},
		{"GET", "/systems/abc", http.StatusOK},
		{"DELETE", "/systems/abc", http.StatusOK},
		{"GET", "/systems/exports/a/b.txt", http.StatusOK},
		{"POST", "/systems/abc", http.StatusMethodNotAllowed},
		{"GET", "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDocument(t *testing.T) {
	spec := openapi.NewSpec("Warden", "test")
	routes.Document(spec, "/api", sampleGroup())

	require.Contains(t, spec.Paths, "/api/systems")
	require.Contains(t, spec.Paths, "/api/systems/{id}")
	require.Contains(t, spec.Paths, "/api/systems/exports/{key}")

	item := spec.Paths["/api/systems/{id}"]
	require.NotNil(t, item.Get)
	assert.Nil(t, item.Delete)
	assert.Equal(t, []string{"Systems"}, item.Get.Tags)

	assert.Contains(t, spec.Components.Schemas, "System")
}
