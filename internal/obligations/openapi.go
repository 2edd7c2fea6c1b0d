package obligations

import "github.com/JaimeStill/warden/pkg/openapi"

var spec = struct {
	List, Find, Search, Update, Sync, Progress *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List tracked obligations",
		Parameters: openapi.PageParams(
			openapi.QueryParam("system_id", "string", "Filter by system", false),
			openapi.QueryParam("status", "string", "Filter by fulfillment status", false),
			openapi.QueryParam("priority", "string", "Filter by priority", false),
			openapi.QueryParam("jurisdiction", "string", "Filter by jurisdiction", false),
		),
		Responses: openapi.Responses(200, openapi.ResponseJSON("Obligation page", "SystemObligationPage"), 500),
	},
	Find: &openapi.Operation{
		Summary:    "Find a tracked obligation",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Tracked obligation ID")},
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Obligation", "SystemObligation"), 400, 404, 500),
	},
	Search: &openapi.Operation{
		Summary:     "Search tracked obligations",
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Obligation page", "SystemObligationPage"), 400, 413, 500),
	},
	Update: &openapi.Operation{
		Summary:     "Update obligation status, assignee, due date or notes",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Tracked obligation ID")},
		RequestBody: openapi.RequestBodyJSON("UpdateObligation", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Obligation", "SystemObligation"), 400, 404, 413, 500),
	},
	Sync: &openapi.Operation{
		Summary:    "Sync a system's obligations with its current classification",
		Parameters: []*openapi.Parameter{openapi.PathParam("systemId", "System ID")},
		Responses: openapi.Responses(200, &openapi.Response{
			Description: "Tracked obligations",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("SystemObligation")}},
			},
		}, 400, 404, 500),
	},
	Progress: &openapi.Operation{
		Summary:    "Summarize obligation fulfillment for a system",
		Parameters: []*openapi.Parameter{openapi.PathParam("systemId", "System ID")},
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Progress", "ObligationProgress"), 400, 500),
	},
}

var schemas = map[string]*openapi.Schema{
	"SystemObligation": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":            {Type: "string", Format: "uuid"},
			"system_id":     {Type: "string", Format: "uuid"},
			"obligation_id": {Type: "string", Example: "rms"},
			"title":         {Type: "string"},
			"article":       {Type: "string"},
			"description":   {Type: "string"},
			"priority":      {Type: "string", Enum: []any{"CRITICAL", "HIGH", "MEDIUM", "LOW"}},
			"jurisdiction":  {Type: "string"},
			"status":        {Type: "string", Enum: []any{"NOT_STARTED", "IN_PROGRESS", "UNDER_REVIEW", "COMPLETED", "OVERDUE"}},
			"assignee":      {Type: "string"},
			"due_date":      {Type: "string", Format: "date"},
			"notes":         {Type: "string"},
			"created_at":    {Type: "string", Format: "date-time"},
			"updated_at":    {Type: "string", Format: "date-time"},
		},
	},
	"SystemObligationPage": openapi.PageSchema("SystemObligation"),
	"UpdateObligation": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"status":   {Type: "string"},
			"assignee": {Type: "string"},
			"due_date": {Type: "string", Format: "date"},
			"notes":    {Type: "string"},
		},
	},
	"ObligationProgress": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"total":     {Type: "integer"},
			"by_status": {Type: "object"},
			"percent":   {Type: "integer"},
		},
	},
}
