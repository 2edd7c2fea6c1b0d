package documents_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/annex"
	"github.com/JaimeStill/warden/internal/documents"
	"github.com/JaimeStill/warden/pkg/pagination"
)

type mockSystem struct {
	listFn          func(context.Context, pagination.PageRequest, documents.Filters) (*pagination.PageResult[documents.Document], error)
	findFn          func(context.Context, uuid.UUID) (*documents.Document, error)
	generateFn      func(context.Context, uuid.UUID) (*documents.Document, error)
	updateSectionFn func(context.Context, uuid.UUID, int, documents.SectionCommand) (*documents.Document, error)
	setStatusFn     func(context.Context, uuid.UUID, documents.StatusCommand) (*documents.Document, error)
	exportFn        func(context.Context, uuid.UUID, annex.Format) (*documents.Export, error)
	deleteFn        func(context.Context, uuid.UUID) error
}

func (m *mockSystem) Handler(int64) *documents.Handler { return nil }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, f documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return m.listFn(ctx, page, f)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Generate(ctx context.Context, systemID uuid.UUID) (*documents.Document, error) {
	return m.generateFn(ctx, systemID)
}

func (m *mockSystem) UpdateSection(ctx context.Context, id uuid.UUID, number int, cmd documents.SectionCommand) (*documents.Document, error) {
	return m.updateSectionFn(ctx, id, number, cmd)
}

func (m *mockSystem) SetStatus(ctx context.Context, id uuid.UUID, cmd documents.StatusCommand) (*documents.Document, error) {
	return m.setStatusFn(ctx, id, cmd)
}

func (m *mockSystem) Export(ctx context.Context, id uuid.UUID, format annex.Format) (*documents.Export, error) {
	return m.exportFn(ctx, id, format)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func setupMux(sys documents.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := documents.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, 4096)

	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func TestGenerate(t *testing.T) {
	systemID := uuid.New()

	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"created", "/documents/" + systemID.String(), nil, http.StatusCreated},
		{"unknown system", "/documents/" + systemID.String(), documents.ErrSystemNotFound, http.StatusNotFound},
		{"bad id", "/documents/zzz", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockSystem{
				generateFn: func(_ context.Context, id uuid.UUID) (*documents.Document, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &documents.Document{ID: uuid.New(), SystemID: id, Status: documents.StatusDraft}, nil
				},
			})

			rec := serve(mux, http.MethodPost, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestUpdateSection(t *testing.T) {
	id := uuid.New()

	var gotNumber int
	mux := setupMux(&mockSystem{
		updateSectionFn: func(_ context.Context, got uuid.UUID, number int, cmd documents.SectionCommand) (*documents.Document, error) {
			gotNumber = number
			if number > 12 {
				return nil, documents.ErrSectionNotFound
			}
			if cmd.Content == nil && cmd.Status == nil {
				return nil, documents.ErrInvalidInput
			}
			return &documents.Document{ID: got}, nil
		},
	})

	rec := serve(mux, http.MethodPut, "/documents/"+id.String()+"/sections/4", `{"content":"updated","status":"partial"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, gotNumber)

	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodPut, "/documents/"+id.String()+"/sections/40", `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodPut, "/documents/"+id.String()+"/sections/four", `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodPut, "/documents/"+id.String()+"/sections/2", `{}`).Code)
}

func TestSetStatus(t *testing.T) {
	id := uuid.New()

	mux := setupMux(&mockSystem{
		setStatusFn: func(_ context.Context, got uuid.UUID, cmd documents.StatusCommand) (*documents.Document, error) {
			status, err := documents.ParseStatus(cmd.Status)
			if err != nil {
				return nil, err
			}
			return &documents.Document{ID: got, Status: status}, nil
		},
	})

	assert.Equal(t, http.StatusOK, serve(mux, http.MethodPut, "/documents/"+id.String()+"/status", `{"status":"approved"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodPut, "/documents/"+id.String()+"/status", `{"status":"archived"}`).Code)
}

func TestExport(t *testing.T) {
	id := uuid.New()

	var gotFormat annex.Format
	mux := setupMux(&mockSystem{
		exportFn: func(_ context.Context, got uuid.UUID, format annex.Format) (*documents.Export, error) {
			gotFormat = format
			return &documents.Export{
				Key:         "exports/" + got.String() + "/annex-iv.md",
				Filename:    "annex-iv.md",
				ContentType: "text/markdown; charset=utf-8",
				Data:        []byte("# Annex IV"),
			}, nil
		},
	})

	rec := serve(mux, http.MethodGet, "/documents/"+id.String()+"/export?format=md", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, annex.FormatMarkdown, gotFormat)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="annex-iv.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "exports/"+id.String()+"/annex-iv.md", rec.Header().Get(documents.ExportKeyHeader))
	assert.Equal(t, "# Annex IV", rec.Body.String())
}

func TestExportDefaultsToText(t *testing.T) {
	var gotFormat annex.Format
	mux := setupMux(&mockSystem{
		exportFn: func(_ context.Context, _ uuid.UUID, format annex.Format) (*documents.Export, error) {
			gotFormat = format
			return &documents.Export{ContentType: "text/plain; charset=utf-8"}, nil
		},
	})

	rec := serve(mux, http.MethodGet, "/documents/"+uuid.NewString()+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, annex.FormatText, gotFormat)
}

func TestExportUnknownFormat(t *testing.T) {
	mux := setupMux(&mockSystem{
		exportFn: func(context.Context, uuid.UUID, annex.Format) (*documents.Export, error) {
			t.Fatal("export should not be called")
			return nil, nil
		},
	})

	rec := serve(mux, http.MethodGet, "/documents/"+uuid.NewString()+"/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete(t *testing.T) {
	id := uuid.New()
	mux := setupMux(&mockSystem{
		deleteFn: func(_ context.Context, got uuid.UUID) error {
			if got != id {
				return documents.ErrNotFound
			}
			return nil
		},
	})

	assert.Equal(t, http.StatusNoContent, serve(mux, http.MethodDelete, "/documents/"+id.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodDelete, "/documents/"+uuid.NewString(), "").Code)
}

func TestListSummary(t *testing.T) {
	mux := setupMux(&mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, _ documents.Filters) (*pagination.PageResult[documents.Document], error) {
			docs := []documents.Document{{
				ID:         uuid.New(),
				SystemName: "Screener",
				Status:     documents.StatusDraft,
				Sections:   []annex.Section{{Number: 1, Title: "General description"}},
			}}
			result := pagination.NewPageResult(docs, 1, page.Page, page.PageSize)
			return &result, nil
		},
	})

	rec := serve(mux, http.MethodGet, "/documents?summary=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"sections"`)
	assert.Contains(t, rec.Body.String(), `"system_name":"Screener"`)
	assert.Contains(t, rec.Body.String(), `"has_next":false`)

	rec = serve(mux, http.MethodGet, "/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sections"`)
}
