package classifications_test

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

	"github.com/JaimeStill/warden/internal/classifications"
	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/risk"
)

type mockSystem struct {
	listFn         func(context.Context, pagination.PageRequest, classifications.Filters) (*pagination.PageResult[classifications.Classification], error)
	findFn         func(context.Context, uuid.UUID) (*classifications.Classification, error)
	findBySystemFn func(context.Context, uuid.UUID) (*classifications.Classification, error)
	classifyFn     func(context.Context, uuid.UUID) (*classifications.Classification, error)
	previewFn      func(context.Context, classifications.PreviewCommand) (*risk.Result, error)
	validateFn     func(context.Context, uuid.UUID, classifications.ValidateCommand) (*classifications.Classification, error)
	deleteFn       func(context.Context, uuid.UUID) error
}

func (m *mockSystem) Handler(int64) *classifications.Handler { return nil }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, f classifications.Filters) (*pagination.PageResult[classifications.Classification], error) {
	return m.listFn(ctx, page, f)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*classifications.Classification, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) FindBySystem(ctx context.Context, id uuid.UUID) (*classifications.Classification, error) {
	return m.findBySystemFn(ctx, id)
}

func (m *mockSystem) Classify(ctx context.Context, id uuid.UUID) (*classifications.Classification, error) {
	return m.classifyFn(ctx, id)
}

func (m *mockSystem) Preview(ctx context.Context, cmd classifications.PreviewCommand) (*risk.Result, error) {
	return m.previewFn(ctx, cmd)
}

func (m *mockSystem) Validate(ctx context.Context, id uuid.UUID, cmd classifications.ValidateCommand) (*classifications.Classification, error) {
	return m.validateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func setupMux(sys classifications.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := classifications.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, 4096)

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

func TestList(t *testing.T) {
	var got classifications.Filters
	mux := setupMux(&mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f classifications.Filters) (*pagination.PageResult[classifications.Classification], error) {
			got = f
			result := pagination.NewPageResult([]classifications.Classification{}, 0, page.Page, page.PageSize)
			return &result, nil
		},
	})

	rec := serve(mux, http.MethodGet, "/classifications?tier=high", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Tier)
	assert.Equal(t, "HIGH", *got.Tier)
}

func TestFindBySystem(t *testing.T) {
	systemID := uuid.New()

	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"latest", "/classifications/system/" + systemID.String(), nil, http.StatusOK},
		{"never classified", "/classifications/system/" + systemID.String(), classifications.ErrNotFound, http.StatusNotFound},
		{"bad id", "/classifications/system/xyz", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockSystem{
				findBySystemFn: func(_ context.Context, id uuid.UUID) (*classifications.Classification, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &classifications.Classification{ID: uuid.New(), SystemID: id, Tier: risk.TierLimited}, nil
				},
			})

			rec := serve(mux, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestClassify(t *testing.T) {
	systemID := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"created", nil, http.StatusCreated},
		{"unknown system", classifications.ErrSystemNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockSystem{
				classifyFn: func(_ context.Context, id uuid.UUID) (*classifications.Classification, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &classifications.Classification{ID: uuid.New(), SystemID: id, Tier: risk.TierHigh, Score: 71}, nil
				},
			})

			rec := serve(mux, http.MethodPost, "/classifications/"+systemID.String(), "")
			require.Equal(t, tt.status, rec.Code)

			if tt.err == nil {
				var body classifications.Classification
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, systemID, body.SystemID)
				assert.Equal(t, risk.TierHigh, body.Tier)
			}
		})
	}
}

func TestPreviewRoutesAheadOfClassify(t *testing.T) {
	var previewed bool
	mux := setupMux(&mockSystem{
		previewFn: func(_ context.Context, cmd classifications.PreviewCommand) (*risk.Result, error) {
			previewed = true
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			res := risk.Classify(cmd.Profile)
			return &res, nil
		},
		classifyFn: func(context.Context, uuid.UUID) (*classifications.Classification, error) {
			t.Fatal("classify should not be called")
			return nil, nil
		},
	})

	body := `{"name":"Support bot","purpose":"chatbot answering customer questions","domain":"customer-service","affected_persons":"customers","autonomy_level":"human-in-loop"}`
	rec := serve(mux, http.MethodPost, "/classifications/preview", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, previewed)

	var res risk.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, risk.RulesVersion, res.RulesVersion)
}

func TestPreviewRejectsInvalidProfile(t *testing.T) {
	mux := setupMux(&mockSystem{
		previewFn: func(_ context.Context, cmd classifications.PreviewCommand) (*risk.Result, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			res := risk.Classify(cmd.Profile)
			return &res, nil
		},
	})

	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodPost, "/classifications/preview", `{"purpose":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodPost, "/classifications/preview", `{"name":"x","colour":"red"}`).Code)
}

func TestValidate(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"validated", `{"validated_by":"dana"}`, nil, http.StatusOK},
		{"already validated", `{"validated_by":"dana"}`, classifications.ErrAlreadyValidated, http.StatusConflict},
		{"missing reviewer", `{"validated_by":""}`, classifications.ErrInvalidInput, http.StatusBadRequest},
		{"missing", `{"validated_by":"dana"}`, classifications.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockSystem{
				validateFn: func(_ context.Context, got uuid.UUID, cmd classifications.ValidateCommand) (*classifications.Classification, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &classifications.Classification{ID: got, ValidatedBy: &cmd.ValidatedBy}, nil
				},
			})

			rec := serve(mux, http.MethodPost, "/classifications/"+id.String()+"/validate", tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestDelete(t *testing.T) {
	id := uuid.New()

	mux := setupMux(&mockSystem{
		deleteFn: func(_ context.Context, got uuid.UUID) error {
			if got != id {
				return classifications.ErrNotFound
			}
			return nil
		},
	})

	assert.Equal(t, http.StatusNoContent, serve(mux, http.MethodDelete, "/classifications/"+id.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodDelete, "/classifications/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodDelete, "/classifications/nope", "").Code)
}
