package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/pkg/lifecycle"
	"github.com/JaimeStill/warden/pkg/routes"
	"github.com/JaimeStill/warden/pkg/storage"
)

type memoryStore struct {
	blobs      map[string]string
	listPrefix string
}

func (m *memoryStore) Start(*lifecycle.Coordinator) error { return nil }

func (m *memoryStore) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	m.blobs[key] = string(data)
	return err
}

func (m *memoryStore) Download(_ context.Context, key string) (*storage.BlobResult, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.BlobResult{
		Body:          io.NopCloser(strings.NewReader(data)),
		ContentType:   "text/markdown",
		ContentLength: int64(len(data)),
	}, nil
}

func (m *memoryStore) Find(_ context.Context, key string) (*storage.BlobMeta, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.BlobMeta{Key: key, ContentLength: int64(len(data))}, nil
}

func (m *memoryStore) List(_ context.Context, prefix, _ string, _ int32) (*storage.BlobList, error) {
	m.listPrefix = prefix
	list := &storage.BlobList{Blobs: []storage.BlobMeta{}}
	for key, data := range m.blobs {
		if strings.HasPrefix(key, prefix) {
			list.Blobs = append(list.Blobs, storage.BlobMeta{Key: key, ContentLength: int64(len(data))})
		}
	}
	return list, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	if _, ok := m.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.blobs[key]
	return ok, nil
}

type captureRecorder struct {
	mu      sync.Mutex
	records []audit.Record
}

func (c *captureRecorder) Record(_ context.Context, rec audit.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func exportsMux(store storage.System, recorder audit.Recorder) *http.ServeMux {
	h := newExportsHandler(store, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)), 50)
	mux := http.NewServeMux()
	routes.Register(mux, h.routes())
	return mux
}

func TestExportsHandler(t *testing.T) {
	docID := uuid.New()
	key := "exports/" + docID.String() + "/annex-iv.md"

	store := &memoryStore{blobs: map[string]string{
		key:              "# Annex IV",
		"private/secret": "not an export",
	}}
	recorder := &captureRecorder{}
	mux := exportsMux(store, recorder)

	do := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	t.Run("download with root", func(t *testing.T) {
		rec := do(http.MethodGet, "/storage/download/"+key)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# Annex IV", rec.Body.String())
		assert.Equal(t, `attachment; filename="annex-iv.md"`, rec.Header().Get("Content-Disposition"))
	})

	t.Run("find without root", func(t *testing.T) {
		rec := do(http.MethodGet, "/storage/"+docID.String()+"/annex-iv.md")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("outside export root", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/storage/download/private/secret").Code)
	})

	t.Run("list scoped to document", func(t *testing.T) {
		rec := do(http.MethodGet, "/storage?document_id="+docID.String())
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "exports/"+docID.String()+"/", store.listPrefix)
		assert.Contains(t, rec.Body.String(), key)
		assert.NotContains(t, rec.Body.String(), "private/secret")
	})

	t.Run("list rejects bad input", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(http.MethodGet, "/storage?document_id=../private").Code)
		assert.Equal(t, http.StatusBadRequest, do(http.MethodGet, "/storage?max_results=0").Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/storage/"+key).Code)
		assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/storage/"+key).Code)

		require.Len(t, recorder.records, 1)
		assert.Equal(t, audit.ActionDelete, recorder.records[0].Action)
		assert.Equal(t, key, recorder.records[0].ResourceID)
	})
}

func TestExportKey(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"exports/abc/annex-iv.md", "exports/abc/annex-iv.md", false},
		{"abc/annex-iv.md", "exports/abc/annex-iv.md", false},
		{"/abc/annex-iv.md", "exports/abc/annex-iv.md", false},
		{"exports/", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := exportKey(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, storage.ErrEmptyKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
