package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/pkg/handlers"
	"github.com/JaimeStill/warden/pkg/openapi"
	"github.com/JaimeStill/warden/pkg/routes"
	"github.com/JaimeStill/warden/pkg/storage"
)

// exportRoot is the blob namespace document exports are written under.
// The storage routes never reach outside it.
const exportRoot = "exports/"

// exportsHandler exposes stored Annex IV exports.
type exportsHandler struct {
	store       storage.System
	audit       audit.Recorder
	logger      *slog.Logger
	maxListSize int32
}

func newExportsHandler(store storage.System, recorder audit.Recorder, logger *slog.Logger, maxListSize int32) *exportsHandler {
	return &exportsHandler{
		store:       store,
		audit:       recorder,
		logger:      logger.With("handler", "exports"),
		maxListSize: maxListSize,
	}
}

func (h *exportsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Tags:   []string{"Exports"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: exportsSpec.List},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download, OpenAPI: exportsSpec.Download},
			{Method: "GET", Pattern: "/{key...}", Handler: h.find, OpenAPI: exportsSpec.Find},
			{Method: "DELETE", Pattern: "/{key...}", Handler: h.delete, OpenAPI: exportsSpec.Delete},
		},
	}
}

var exportsSpec = struct {
	List, Find, Download, Delete *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List exported documents",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("document_id", "string", "Limit the listing to one document's exports", false),
			openapi.QueryParam("marker", "string", "Continuation marker from a previous page", false),
			openapi.QueryParam("max_results", "integer", "Page size", false),
		},
		Responses: openapi.Responses(200, &openapi.Response{Description: "Export listing"}, 400, 500),
	},
	Find: &openapi.Operation{
		Summary:    "Export metadata",
		Parameters: []*openapi.Parameter{openapi.TypedPathParam("key", "string", "Export key, with or without the exports/ root")},
		Responses:  openapi.Responses(200, &openapi.Response{Description: "Export metadata"}, 400, 404, 500),
	},
	Download: &openapi.Operation{
		Summary:    "Download an export",
		Parameters: []*openapi.Parameter{openapi.TypedPathParam("key", "string", "Export key, with or without the exports/ root")},
		Responses:  openapi.Responses(200, &openapi.Response{Description: "Export content"}, 400, 404, 500),
	},
	Delete: &openapi.Operation{
		Summary:    "Delete an export",
		Parameters: []*openapi.Parameter{openapi.TypedPathParam("key", "string", "Export key, with or without the exports/ root")},
		Responses:  openapi.Responses(204, &openapi.Response{Description: "Deleted"}, 400, 404, 500),
	},
}

// exportKey roots a caller-supplied key under exportRoot.
func exportKey(raw string) (string, error) {
	key := strings.TrimPrefix(strings.TrimPrefix(raw, "/"), exportRoot)
	if key == "" {
		return "", storage.ErrEmptyKey
	}
	return exportRoot + key, nil
}

func (h *exportsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	maxResults, err := storage.ParseMaxResults(q.Get("max_results"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	prefix := exportRoot
	if raw := q.Get("document_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid document_id: %w", err))
			return
		}
		prefix += id.String() + "/"
	}

	result, err := h.store.List(r.Context(), prefix, q.Get("marker"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *exportsHandler) find(w http.ResponseWriter, r *http.Request) {
	key, err := exportKey(r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	meta, err := h.store.Find(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

func (h *exportsHandler) download(w http.ResponseWriter, r *http.Request) {
	key, err := exportKey(r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	header := w.Header()
	header.Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		header.Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("export download interrupted", "key", key, "error", err)
	}
}

func (h *exportsHandler) delete(w http.ResponseWriter, r *http.Request) {
	key, err := exportKey(r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	h.audit.Record(r.Context(), audit.Record{
		Action:       audit.ActionDelete,
		ResourceType: "export",
		ResourceID:   key,
	})

	w.WriteHeader(http.StatusNoContent)
}
