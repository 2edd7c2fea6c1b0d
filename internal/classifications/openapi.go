package classifications

import "github.com/JaimeStill/warden/pkg/openapi"

var idParam = []*openapi.Parameter{openapi.PathParam("id", "Classification ID")}

var spec = struct {
	List, Find, FindBySystem, Search, Classify, Preview, Validate, Delete *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List classifications",
		Parameters: openapi.PageParams(
			openapi.QueryParam("system_id", "string", "Filter by system", false),
			openapi.QueryParam("tier", "string", "Filter by risk tier", false),
			openapi.QueryParam("rules_version", "string", "Filter by rules version", false),
			openapi.QueryParam("validated_by", "string", "Filter by reviewer", false),
		),
		Responses: openapi.Responses(200, openapi.ResponseJSON("Classification page", "ClassificationPage"), 500),
	},
	Find: &openapi.Operation{
		Summary:    "Find a classification",
		Parameters: idParam,
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Classification", "Classification"), 400, 404, 500),
	},
	FindBySystem: &openapi.Operation{
		Summary:    "Find the latest classification of a system",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "System ID")},
		Responses:  openapi.Responses(200, openapi.ResponseJSON("Classification", "Classification"), 400, 404, 500),
	},
	Search: &openapi.Operation{
		Summary:     "Search classifications",
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Classification page", "ClassificationPage"), 400, 413, 500),
	},
	Classify: &openapi.Operation{
		Summary:     "Classify a stored system",
		Description: "Persists the run, updates the system's tier and score, and syncs its obligations.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("systemId", "System ID")},
		Responses:   openapi.Responses(201, openapi.ResponseJSON("Classification", "Classification"), 400, 404, 500),
	},
	Preview: &openapi.Operation{
		Summary:     "Classify a profile without storing it",
		RequestBody: openapi.RequestBodyJSON("Profile", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Classifier result", "ClassificationResult"), 400, 413, 500),
	},
	Validate: &openapi.Operation{
		Summary:     "Record reviewer sign-off",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("ValidateClassification", true),
		Responses:   openapi.Responses(200, openapi.ResponseJSON("Validated classification", "Classification"), 400, 404, 409, 413, 500),
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a classification",
		Parameters: idParam,
		Responses:  openapi.Responses(204, &openapi.Response{Description: "Deleted"}, 400, 404, 500),
	},
}

var tierEnum = []any{"UNACCEPTABLE", "HIGH", "LIMITED", "MINIMAL"}

var resultProperties = map[string]*openapi.Schema{
	"tier":       {Type: "string", Enum: tierEnum},
	"score":      {Type: "integer"},
	"confidence": {Type: "integer"},
	"reasoning": {Type: "array", Items: &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"factor":      {Type: "string"},
			"weight":      {Type: "number"},
			"score":       {Type: "integer"},
			"explanation": {Type: "string"},
		},
	}},
	"articles":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
	"obligations":   {Type: "array", Items: &openapi.Schema{Type: "object"}},
	"colorado":      {Type: "object"},
	"policy_review": {Type: "object"},
	"rules_version": {Type: "string"},
}

func classificationProperties() map[string]*openapi.Schema {
	out := map[string]*openapi.Schema{
		"id":            {Type: "string", Format: "uuid"},
		"system_id":     {Type: "string", Format: "uuid"},
		"classified_by": {Type: "string"},
		"classified_at": {Type: "string", Format: "date-time"},
		"validated_by":  {Type: "string"},
		"validated_at":  {Type: "string", Format: "date-time"},
	}
	for k, v := range resultProperties {
		out[k] = v
	}
	return out
}

var schemas = map[string]*openapi.Schema{
	"Classification":       {Type: "object", Properties: classificationProperties()},
	"ClassificationPage":   openapi.PageSchema("Classification"),
	"ClassificationResult": {Type: "object", Properties: resultProperties},
	"Profile": {
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]*openapi.Schema{
			"name":                      {Type: "string"},
			"description":               {Type: "string"},
			"purpose":                   {Type: "string"},
			"domain":                    {Type: "string", Example: "credit"},
			"deployer":                  {Type: "string"},
			"data_categories":           {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"data_inputs":               {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"output_type":               {Type: "string"},
			"affected_persons":          {Type: "string"},
			"autonomy_level":            {Type: "string", Example: "fully-autonomous"},
			"model_type":                {Type: "string"},
			"training_data_description": {Type: "string"},
		},
	},
	"ValidateClassification": {
		Type:       "object",
		Required:   []string{"validated_by"},
		Properties: map[string]*openapi.Schema{"validated_by": {Type: "string"}},
	},
}
