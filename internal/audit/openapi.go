package audit

import "github.com/JaimeStill/warden/pkg/openapi"

var spec = struct {
	List, Find, Search *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List audit entries",
		Parameters: openapi.PageParams(
			openapi.QueryParam("actor", "string", "Filter by actor", false),
			openapi.QueryParam("action", "string", "Filter by action", false),
			openapi.QueryParam("resource_type", "string", "Filter by resource type", false),
			openapi.QueryParam("resource_id", "string", "Filter by resource id", false),
			openapi.DateTimeParam("since", "Entries recorded at or after this time"),
			openapi.DateTimeParam("until", "Entries recorded before this time"),
		),
		Responses: openapi.Responses(200, openapi.ResponseJSON("Audit entry page", "AuditEntryPage"), 400, 500),
	},
	Find: &openapi.Operation{
		Summary:    "Find an audit entry",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Audit entry ID")},
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Audit entry", "AuditEntry"), 400, 404, 500),
	},
	Search: &openapi.Operation{
		Summary:     "Search audit entries",
		RequestBody: openapi.RequestBodyJSON("AuditSearch", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Audit entry page", "AuditEntryPage"), 400, 413, 500),
	},
}

var schemas = map[string]*openapi.Schema{
	"AuditEntry": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":            {Type: "string", Format: "uuid"},
			"actor":         {Type: "string"},
			"action":        {Type: "string"},
			"resource_type": {Type: "string"},
			"resource_id":   {Type: "string"},
			"details":       {Type: "object"},
			"created_at":    {Type: "string", Format: "date-time"},
		},
	},
	"AuditEntryPage": openapi.PageSchema("AuditEntry"),
	"AuditSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":          {Type: "integer"},
			"page_size":     {Type: "integer"},
			"search":        {Type: "string"},
			"sort":          {Type: "string"},
			"actor":         {Type: "string"},
			"action":        {Type: "string"},
			"resource_type": {Type: "string"},
			"resource_id":   {Type: "string"},
			"since":         {Type: "string", Format: "date-time"},
			"until":         {Type: "string", Format: "date-time"},
		},
	},
}
