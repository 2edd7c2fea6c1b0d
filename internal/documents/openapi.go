package documents

import "github.com/JaimeStill/warden/pkg/openapi"

var idParam = openapi.PathParam("id", "Document ID")

var spec = struct {
	List, Find, Search, Generate, UpdateSection, SetStatus, Export, Delete *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List documents",
		Parameters: openapi.PageParams(
			openapi.QueryParam("system_id", "string", "Filter by system", false),
			openapi.QueryParam("owner_id", "string", "Filter by system owner", false),
			openapi.QueryParam("status", "string", "Filter by review status", false),
			openapi.QueryParam("tier", "string", "Filter by risk tier", false),
			openapi.QueryParam("summary", "boolean", "Omit section bodies from each document", false),
		),
		Responses: openapi.Responses(200, openapi.ResponseJSON("Document page", "AnnexDocumentPage"), 500),
	},
	Find: &openapi.Operation{
		Summary:    "Find a document",
		Parameters: []*openapi.Parameter{idParam},
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Document", "AnnexDocument"), 400, 404, 500),
	},
	Search: &openapi.Operation{
		Summary:     "Search documents",
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Document page", "AnnexDocumentPage"), 400, 413, 500),
	},
	Generate: &openapi.Operation{
		Summary:     "Generate an Annex IV draft for a system",
		Description: "Uses the latest saved classification, or classifies live when none is saved.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("systemId", "System ID")},
		Responses:   openapi.Responses(201, openapi.ResponseJSON("Generated document", "AnnexDocument"), 400, 404, 500),
	},
	UpdateSection: &openapi.Operation{
		Summary: "Edit a document section",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.TypedPathParam("number", "integer", "Section number"),
		},
		RequestBody: openapi.RequestBodyJSON("UpdateSection", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Updated document", "AnnexDocument"), 400, 404, 413, 500),
	},
	SetStatus: &openapi.Operation{
		Summary:     "Change document review status",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("SetDocumentStatus", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Updated document", "AnnexDocument"), 400, 404, 413, 500),
	},
	Export: &openapi.Operation{
		Summary: "Render and store a document export",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.QueryParam("format", "string", "text, markdown or json (default text)", false),
		},
		Responses: openapi.Responses(200, &openapi.Response{
			Description: "Rendered document",
			Content: map[string]*openapi.MediaType{
				"text/plain":       {Schema: &openapi.Schema{Type: "string"}},
				"text/markdown":    {Schema: &openapi.Schema{Type: "string"}},
				"application/json": {Schema: openapi.SchemaRef("AnnexDocument")},
			},
		}, 400, 404, 500),
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a document and its stored export",
		Parameters: []*openapi.Parameter{idParam},
		Responses:  openapi.Responses(204, &openapi.Response{Description: "Deleted"}, 400, 404, 500),
	},
}

var sectionStatus = []any{"complete", "partial", "missing"}

var schemas = map[string]*openapi.Schema{
	"AnnexDocument": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":            {Type: "string", Format: "uuid"},
			"system_id":     {Type: "string", Format: "uuid"},
			"owner_id":      {Type: "string"},
			"system_name":   {Type: "string"},
			"version":       {Type: "string", Example: "1.0.0-draft"},
			"tier":          {Type: "string"},
			"rules_version": {Type: "string"},
			"sections": {Type: "array", Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"number":           {Type: "integer"},
					"title":            {Type: "string"},
					"description":      {Type: "string"},
					"required_content": {Type: "array", Items: &openapi.Schema{Type: "string"}},
					"content":          {Type: "string"},
					"status":           {Type: "string", Enum: sectionStatus},
					"needs_evidence":   {Type: "boolean"},
				},
			}},
			"completeness": {Type: "integer"},
			"status":       {Type: "string", Enum: []any{"DRAFT", "REVIEW", "APPROVED", "PUBLISHED"}},
			"export_key":   {Type: "string"},
			"created_at":   {Type: "string", Format: "date-time"},
			"updated_at":   {Type: "string", Format: "date-time"},
		},
	},
	"AnnexDocumentPage": openapi.PageSchema("AnnexDocument"),
	"UpdateSection": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"content": {Type: "string"},
			"status":  {Type: "string", Enum: sectionStatus},
		},
	},
	"SetDocumentStatus": {
		Type:       "object",
		Required:   []string{"status"},
		Properties: map[string]*openapi.Schema{"status": {Type: "string"}},
	},
}
