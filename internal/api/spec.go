package api

import (
	"net/http"

	"github.com/hbenali/aeropass/internal/config"
	"github.com/hbenali/aeropass/pkg/openapi"
)

// buildSpec assembles the OpenAPI document served at /openapi.json.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Badge": {
			Type:        "object",
			Description: "Badge record with derived lifecycle status and processing signal",
			Properties: map[string]*openapi.Schema{
				"badge_num":   {Type: "string", Example: "B-1042"},
				"type":        {Type: "string", Enum: []any{"permanent", "temporary", "recovered"}},
				"full_name":   {Type: "string"},
				"company":     {Type: "string"},
				"cin":         {Type: "string"},
				"status":      {Type: "string", Enum: []any{"active", "expired", "processing", "recovered"}},
				"processing":  openapi.SchemaRef("ProcessingSignal"),
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
			Required: []string{"badge_num"},
		},
		"ProcessingSignal": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":  {Type: "string", Enum: []any{"no-date", "completed", "processing", "warning", "delayed", "recovered"}},
				"days":    {Type: "integer"},
				"message": {Type: "string", Example: "En traitement (3j)"},
			},
		},
		"Notification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":        {Type: "string", Example: "retard:B-1042"},
				"type":      {Type: "string", Enum: []any{"nouveau", "retard", "expiration"}},
				"severity":  {Type: "string", Enum: []any{"critique", "attention", "info"}},
				"badge_num": {Type: "string"},
				"message":   {Type: "string"},
			},
		},
		"Feed": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"notifications": {Type: "array", Items: openapi.SchemaRef("Notification")},
				"summary":       {Type: "object"},
				"last_updated":  {Type: "string", Format: "date-time"},
			},
		},
		"ContractReceipt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"badge_num":   {Type: "string"},
				"badge_type":  {Type: "string"},
				"filename":    {Type: "string"},
				"size_bytes":  {Type: "integer"},
				"page_count":  {Type: "integer"},
				"uploaded_at": {Type: "string", Format: "date-time"},
			},
		},
		"Stats": {
			Type:        "object",
			Description: "Dashboard aggregations over the badge collection",
			Properties: map[string]*openapi.Schema{
				"counts":              {Type: "object"},
				"statuses":            {Type: "object"},
				"delays":              {Type: "object"},
				"companies":           {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"avg_processing_days": {Type: "number"},
				"monthly_creations":   {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"yearly_creations":    {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"notifications":       {Type: "object"},
				"generated_at":        {Type: "string", Format: "date-time"},
			},
		},
	})

	typeParam := &openapi.Parameter{
		Name:        "type",
		In:          "path",
		Required:    true,
		Description: "Badge lifecycle",
		Schema:      &openapi.Schema{Type: "string", Enum: []any{"permanent", "temporary", "recovered"}},
	}
	badgeNumParam := &openapi.Parameter{
		Name:        "badgeNum",
		In:          "path",
		Required:    true,
		Description: "Badge number",
		Schema:      &openapi.Schema{Type: "string"},
	}

	spec.Paths["/badges"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List all badges across lifecycles",
			Tags:    []string{"badges"},
			Responses: map[int]*openapi.Response{
				http.StatusOK: openapi.ResponseJSON("All badges, annotated", "Badge"),
			},
		},
	}

	spec.Paths["/badges/search"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Search badges by number, name, company, or national ID",
			Tags:       []string{"badges"},
			Parameters: []*openapi.Parameter{openapi.QueryParam("query", "string", "Search term", true)},
			Responses: map[int]*openapi.Response{
				http.StatusOK:         openapi.ResponseJSON("Matching badges", "Badge"),
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/badges/any/{badgeNum}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a badge by number across all lifecycles",
			Tags:       []string{"badges"},
			Parameters: []*openapi.Parameter{badgeNumParam},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       openapi.ResponseJSON("Badge", "Badge"),
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/badges/{type}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List badges of one lifecycle",
			Tags:       []string{"badges"},
			Parameters: []*openapi.Parameter{typeParam},
			Responses: map[int]*openapi.Response{
				http.StatusOK:         openapi.ResponseJSON("Paginated badges", "Badge"),
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Register a new badge",
			Tags:        []string{"badges"},
			Parameters:  []*openapi.Parameter{typeParam},
			RequestBody: openapi.RequestBodyJSON("Badge", true),
			Responses: map[int]*openapi.Response{
				http.StatusCreated:    openapi.ResponseJSON("Created badge", "Badge"),
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
				http.StatusConflict:   openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/badges/{type}/count"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Count badges of one lifecycle",
			Tags:       []string{"badges"},
			Parameters: []*openapi.Parameter{typeParam},
			Responses: map[int]*openapi.Response{
				http.StatusOK: {Description: "Badge count"},
			},
		},
	}

	spec.Paths["/badges/{type}/{badgeNum}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a badge",
			Tags:       []string{"badges"},
			Parameters: []*openapi.Parameter{typeParam, badgeNumParam},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       openapi.ResponseJSON("Badge", "Badge"),
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update a badge",
			Tags:        []string{"badges"},
			Parameters:  []*openapi.Parameter{typeParam, badgeNumParam},
			RequestBody: openapi.RequestBodyJSON("Badge", true),
			Responses: map[int]*openapi.Response{
				http.StatusOK:       openapi.ResponseJSON("Updated badge", "Badge"),
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a badge and its contract",
			Tags:       []string{"badges"},
			Parameters: []*openapi.Parameter{typeParam, badgeNumParam},
			Responses: map[int]*openapi.Response{
				http.StatusNoContent: {Description: "Deleted"},
				http.StatusNotFound:  openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/badges/{type}/{badgeNum}/contract"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Attach a PDF contract to a badge",
			Tags:       []string{"contracts"},
			Parameters: []*openapi.Parameter{typeParam, badgeNumParam},
			Responses: map[int]*openapi.Response{
				http.StatusCreated:    openapi.ResponseJSON("Contract receipt", "ContractReceipt"),
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
				http.StatusNotFound:   openapi.ResponseRef("NotFound"),
			},
		},
		Get: &openapi.Operation{
			Summary:    "Download the contract PDF",
			Tags:       []string{"contracts"},
			Parameters: []*openapi.Parameter{typeParam, badgeNumParam},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       {Description: "PDF stream"},
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Remove the contract from a badge",
			Tags:       []string{"contracts"},
			Parameters: []*openapi.Parameter{typeParam, badgeNumParam},
			Responses: map[int]*openapi.Response{
				http.StatusNoContent: {Description: "Deleted"},
				http.StatusNotFound:  openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/badges/{type}/{badgeNum}/contract/exists"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Check whether a badge carries a contract",
			Tags:       []string{"contracts"},
			Parameters: []*openapi.Parameter{typeParam, badgeNumParam},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       {Description: "Existence flag"},
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/notifications"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get the notification feed",
			Tags:    []string{"notifications"},
			Responses: map[int]*openapi.Response{
				http.StatusOK: openapi.ResponseJSON("Feed with summary", "Feed"),
			},
		},
	}

	spec.Paths["/notifications/{id}"] = &openapi.PathItem{
		Delete: &openapi.Operation{
			Summary: "Dismiss a notification",
			Tags:    []string{"notifications"},
			Parameters: []*openapi.Parameter{{
				Name: "id", In: "path", Required: true,
				Description: "Notification id (type:badge_num)",
				Schema:      &openapi.Schema{Type: "string"},
			}},
			Responses: map[int]*openapi.Response{
				http.StatusNoContent:  {Description: "Dismissed"},
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/notifications/clear-all"] = &openapi.PathItem{
		Delete: &openapi.Operation{
			Summary: "Dismiss every notification in the current feed",
			Tags:    []string{"notifications"},
			Responses: map[int]*openapi.Response{
				http.StatusNoContent: {Description: "Cleared"},
			},
		},
	}

	spec.Paths["/notifications/acknowledge-new"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Mark all badge creation events as seen",
			Tags:    []string{"notifications"},
			Responses: map[int]*openapi.Response{
				http.StatusNoContent: {Description: "Acknowledged"},
			},
		},
	}

	spec.Paths["/stats"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get dashboard statistics",
			Tags:    []string{"stats"},
			Responses: map[int]*openapi.Response{
				http.StatusOK: openapi.ResponseJSON("Aggregations", "Stats"),
			},
		},
	}

	return spec
}
