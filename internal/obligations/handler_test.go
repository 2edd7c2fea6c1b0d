package obligations_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/internal/obligations"
	"github.com/JaimeStill/warden/pkg/pagination"
)

type mockSystem struct {
	listFn     func(context.Context, pagination.PageRequest, obligations.Filters) (*pagination.PageResult[obligations.SystemObligation], error)
	findFn     func(context.Context, uuid.UUID) (*obligations.SystemObligation, error)
	progressFn func(context.Context, uuid.UUID) (*obligations.Progress, error)
	syncFn     func(context.Context, uuid.UUID) ([]obligations.SystemObligation, error)
	updateFn   func(context.Context, uuid.UUID, obligations.UpdateCommand) (*obligations.SystemObligation, error)
}

func (m *mockSystem) Handler(int64) *obligations.Handler { return nil }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, f obligations.Filters) (*pagination.PageResult[obligations.SystemObligation], error) {
	return m.listFn(ctx, page, f)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*obligations.SystemObligation, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Progress(ctx context.Context, systemID uuid.UUID) (*obligations.Progress, error) {
	return m.progressFn(ctx, systemID)
}

func (m *mockSystem) Sync(ctx context.Context, systemID uuid.UUID) ([]obligations.SystemObligation, error) {
	return m.syncFn(ctx, systemID)
}

func (m *mockSystem) Update(ctx context.Context, id uuid.UUID, cmd obligations.UpdateCommand) (*obligations.SystemObligation, error) {
	return m.updateFn(ctx, id, cmd)
}

func setupMux(sys obligations.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := obligations.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, 4096)

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

func TestListFilters(t *testing.T) {
	systemID := uuid.New()

	var got obligations.Filters
	mux := setupMux(&mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f obligations.Filters) (*pagination.PageResult[obligations.SystemObligation], error) {
			got = f
			result := pagination.NewPageResult([]obligations.SystemObligation{}, 0, page.Page, page.PageSize)
			return &result, nil
		},
	})

	rec := serve(mux, http.MethodGet, "/obligations?system_id="+systemID.String()+"&status=in-progress&priority=critical&jurisdiction=EU_AI_ACT", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, got.SystemID)
	assert.Equal(t, systemID, *got.SystemID)
	assert.Equal(t, "IN_PROGRESS", *got.Status)
	assert.Equal(t, "CRITICAL", *got.Priority)
	assert.Equal(t, "EU_AI_ACT", *got.Jurisdiction)
}

func TestListIgnoresUnknownLabels(t *testing.T) {
	var got obligations.Filters
	mux := setupMux(&mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f obligations.Filters) (*pagination.PageResult[obligations.SystemObligation], error) {
			got = f
			result := pagination.NewPageResult([]obligations.SystemObligation{}, 0, page.Page, page.PageSize)
			return &result, nil
		},
	})

	rec := serve(mux, http.MethodGet, "/obligations?system_id=nope&status=done&priority=urgent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.SystemID)
	assert.Nil(t, got.Status)
	assert.Nil(t, got.Priority)
}

func TestFind(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"found", "/obligations/" + id.String(), nil, http.StatusOK},
		{"missing", "/obligations/" + id.String(), obligations.ErrNotFound, http.StatusNotFound},
		{"bad id", "/obligations/not-a-uuid", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockSystem{
				findFn: func(_ context.Context, got uuid.UUID) (*obligations.SystemObligation, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &obligations.SystemObligation{ID: got, ObligationID: "rms"}, nil
				},
			})

			rec := serve(mux, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestProgress(t *testing.T) {
	systemID := uuid.New()
	mux := setupMux(&mockSystem{
		progressFn: func(_ context.Context, got uuid.UUID) (*obligations.Progress, error) {
			assert.Equal(t, systemID, got)
			p := obligations.Summarize([]obligations.SystemObligation{
				{Status: obligations.StatusCompleted},
				{Status: obligations.StatusNotStarted},
			})
			return &p, nil
		},
	})

	rec := serve(mux, http.MethodGet, "/obligations/progress/"+systemID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body obligations.Progress
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 50, body.Percent)
	assert.Equal(t, 1, body.ByStatus[obligations.StatusCompleted])
}

func TestSync(t *testing.T) {
	systemID := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"synced", nil, http.StatusOK},
		{"unknown system", obligations.ErrSystemNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockSystem{
				syncFn: func(_ context.Context, got uuid.UUID) ([]obligations.SystemObligation, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return []obligations.SystemObligation{
						{SystemID: got, ObligationID: "rms", Status: obligations.StatusNotStarted},
					}, nil
				},
			})

			rec := serve(mux, http.MethodPost, "/obligations/sync/"+systemID.String(), "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestUpdate(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"updated", `{"status":"completed","assignee":"dana"}`, nil, http.StatusOK},
		{"bad status", `{"status":"done"}`, obligations.ErrInvalidStatus, http.StatusBadRequest},
		{"bad json", `{"status":`, nil, http.StatusBadRequest},
		{"missing", `{"notes":"x"}`, obligations.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockSystem{
				updateFn: func(_ context.Context, got uuid.UUID, cmd obligations.UpdateCommand) (*obligations.SystemObligation, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					o := obligations.SystemObligation{ID: got, Status: obligations.StatusNotStarted}
					if err := cmd.Apply(&o); err != nil {
						return nil, err
					}
					return &o, nil
				},
			})

			rec := serve(mux, http.MethodPut, "/obligations/"+id.String(), tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
