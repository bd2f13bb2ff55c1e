package api

import (
	"encoding/json"

	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// ValidateRequest is the body of POST /validate
type ValidateRequest struct {
	Content string `json:"content"`
}

// ValidateResponse is returned by POST /validate for parseable schemas
type ValidateResponse struct {
	Valid     bool             `json:"valid"`
	RunID     string           `json:"runId"`
	Datamodel *dml.Datamodel   `json:"datamodel,omitempty"`
	Errors    directive.Errors `json:"errors,omitempty"`
}

// DirectivesResponse lists the registered directives per node kind
type DirectivesResponse struct {
	Directives map[string][]string `json:"directives"`
}

// cachedResponse is what the result cache stores for a schema source
type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}
