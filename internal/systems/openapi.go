package systems

import (
	"maps"

	"github.com/JaimeStill/warden/pkg/openapi"
)

var idParam = []*openapi.Parameter{openapi.PathParam("id", "System ID")}

var spec = struct {
	List, Find, Search, Create, Update, Delete, Summary *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List registered AI systems",
		Parameters: openapi.PageParams(
			openapi.QueryParam("owner_id", "string", "Filter by owner", false),
			openapi.QueryParam("domain", "string", "Filter by domain", false),
			openapi.QueryParam("risk_tier", "string", "Filter by risk tier", false),
			openapi.QueryParam("compliance_status", "string", "Filter by compliance status", false),
		),
		Responses: openapi.Responses(200, openapi.ResponseJSON("System page", "AISystemPage"), 500),
	},
	Find: &openapi.Operation{
		Summary:    "Find a system",
		Parameters: idParam,
		Responses:  openapi.Responses(200, openapi.ResponseJSON("System", "AISystem"), 400, 404, 500),
	},
	Search: &openapi.Operation{
		Summary:     "Search systems",
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("System page", "AISystemPage"), 400, 413, 500),
	},
	Create: &openapi.Operation{
		Summary:     "Register a system",
		Description: "Classifies the system and stores the resulting tier and score.",
		RequestBody: openapi.RequestBodyJSON("CreateSystem", true),
		Responses:   openapi.Responses(201, openapi.ResponseJSON("Registered system", "AISystem"), 400, 409, 413, 500),
	},
	Update: &openapi.Operation{
		Summary:     "Update a system",
		Description: "Reclassifies the system when any classifier input changes.",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("UpdateSystem", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Updated system", "AISystem"), 400, 404, 409, 413, 500),
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a system and its records",
		Parameters: idParam,
		Responses:  openapi.Responses(204, &openapi.Response{Description: "Deleted"}, 400, 404, 500),
	},
	Summary: &openapi.Operation{
		Summary:    "Count systems by tier and compliance status",
		Parameters: []*openapi.Parameter{openapi.QueryParam("owner_id", "string", "Restrict to one owner", false)},
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Summary", "SystemSummary"), 500),
	},
}

var profileProperties = map[string]*openapi.Schema{
	"name":                      {Type: "string"},
	"description":               {Type: "string"},
	"purpose":                   {Type: "string"},
	"domain":                    {Type: "string", Example: "hiring"},
	"deployer":                  {Type: "string"},
	"data_categories":           {Type: "array", Items: &openapi.Schema{Type: "string"}},
	"data_inputs":               {Type: "array", Items: &openapi.Schema{Type: "string"}},
	"output_type":               {Type: "string"},
	"affected_persons":          {Type: "string"},
	"autonomy_level":            {Type: "string", Example: "human-in-loop"},
	"model_type":                {Type: "string"},
	"training_data_description": {Type: "string"},
}

func withProperties(extra map[string]*openapi.Schema) map[string]*openapi.Schema {
	out := maps.Clone(profileProperties)
	maps.Copy(out, extra)
	return out
}

var schemas = map[string]*openapi.Schema{
	"AISystem": {
		Type: "object",
		Properties: withProperties(map[string]*openapi.Schema{
			"id":                         {Type: "string", Format: "uuid"},
			"owner_id":                   {Type: "string"},
			"normalized_domain":          {Type: "string", Example: "hiring"},
			"normalized_data_categories": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"risk_tier":                  {Type: "string", Enum: []any{"UNACCEPTABLE", "HIGH", "LIMITED", "MINIMAL"}},
			"risk_score":                 {Type: "integer"},
			"compliance_status":          {Type: "string"},
			"created_at":                 {Type: "string", Format: "date-time"},
			"updated_at":                 {Type: "string", Format: "date-time"},
		}),
	},
	"AISystemPage": openapi.PageSchema("AISystem"),
	"CreateSystem": {
		Type:       "object",
		Required:   []string{"owner_id", "name"},
		Properties: withProperties(map[string]*openapi.Schema{"owner_id": {Type: "string"}}),
	},
	"UpdateSystem": {
		Type:       "object",
		Properties: withProperties(map[string]*openapi.Schema{"compliance_status": {Type: "string"}}),
	},
	"SystemSummary": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"total":         {Type: "integer"},
			"by_tier":       {Type: "object"},
			"by_compliance": {Type: "object"},
		},
	},
}
