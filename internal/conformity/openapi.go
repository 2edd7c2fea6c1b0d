package conformity

import "github.com/JaimeStill/warden/pkg/openapi"

var idParam = openapi.PathParam("id", "Assessment ID")

var spec = struct {
	List, Find, FindBySystem, Search, Create, UpdateRequirement, Delete *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List conformity assessments",
		Parameters: openapi.PageParams(
			openapi.QueryParam("system_id", "string", "Filter by system", false),
			openapi.QueryParam("assessor", "string", "Filter by assessor", false),
			openapi.QueryParam("assessment_type", "string", "INTERNAL, THIRD_PARTY or NOTIFIED_BODY", false),
		),
		Responses: openapi.Responses(200, openapi.ResponseJSON("Assessment page", "AssessmentPage"), 500),
	},
	Find: &openapi.Operation{
		Summary:    "Find an assessment",
		Parameters: []*openapi.Parameter{idParam},
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Assessment", "Assessment"), 400, 404, 500),
	},
	FindBySystem: &openapi.Operation{
		Summary:    "Find the latest assessment of a system",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "System ID")},
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Assessment", "Assessment"), 400, 404, 500),
	},
	Search: &openapi.Operation{
		Summary:     "Search assessments",
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Assessment page", "AssessmentPage"), 400, 413, 500),
	},
	Create: &openapi.Operation{
		Summary:     "Start a conformity checklist for a system",
		Description: "The checklist is seeded from the HIGH-tier obligation templates with every item NOT_ASSESSED.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("systemId", "System ID")},
		RequestBody: openapi.RequestBodyJSON("CreateAssessment", true),
		Responses:   openapi.Responses(201, openapi.ResponseJSON("Assessment", "Assessment"), 400, 404, 413, 500),
	},
	UpdateRequirement: &openapi.Operation{
		Summary: "Mark a checklist requirement",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.TypedPathParam("requirementId", "string", "Requirement ID"),
		},
		RequestBody: openapi.RequestBodyJSON("UpdateRequirement", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Assessment", "Assessment"), 400, 404, 413, 500),
	},
	Delete: &openapi.Operation{
		Summary:    "Delete an assessment",
		Parameters: []*openapi.Parameter{idParam},
		Responses:  openapi.Responses(204, &openapi.Response{Description: "Deleted"}, 400, 404, 500),
	},
}

var requirementStatus = []any{"PASS", "FAIL", "PARTIAL", "NOT_ASSESSED"}

var schemas = map[string]*openapi.Schema{
	"Assessment": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":              {Type: "string", Format: "uuid"},
			"system_id":       {Type: "string", Format: "uuid"},
			"assessor":        {Type: "string"},
			"assessment_type": {Type: "string", Enum: []any{"INTERNAL", "THIRD_PARTY", "NOTIFIED_BODY"}},
			"requirements": {Type: "array", Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"id":          {Type: "string", Example: "rms"},
					"article":     {Type: "string"},
					"requirement": {Type: "string"},
					"status":      {Type: "string", Enum: requirementStatus},
					"evidence":    {Type: "string"},
					"notes":       {Type: "string"},
				},
			}},
			"score":      {Type: "integer"},
			"outcome":    {Type: "string", Enum: []any{"CONFORMANT", "NON_CONFORMANT", "IN_PROGRESS"}},
			"created_at": {Type: "string", Format: "date-time"},
			"updated_at": {Type: "string", Format: "date-time"},
		},
	},
	"AssessmentPage": openapi.PageSchema("Assessment"),
	"CreateAssessment": {
		Type:     "object",
		Required: []string{"assessor"},
		Properties: map[string]*openapi.Schema{
			"assessor":        {Type: "string"},
			"assessment_type": {Type: "string", Default: "INTERNAL"},
		},
	},
	"UpdateRequirement": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"status":   {Type: "string", Enum: requirementStatus},
			"evidence": {Type: "string"},
			"notes":    {Type: "string"},
		},
	},
}
