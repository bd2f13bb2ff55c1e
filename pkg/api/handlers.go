package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/platinummonkey/dml/pkg/cache"
	"github.com/platinummonkey/dml/pkg/dml/parser"
	"github.com/platinummonkey/dml/pkg/httputil"
	"github.com/platinummonkey/dml/pkg/loader"
	"github.com/platinummonkey/dml/pkg/observability"
)

// CacheHeader reports whether /validate was answered from the cache
const CacheHeader = "X-Cache"

// validate handles POST /validate
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Content, "content") {
		return
	}

	ctx := r.Context()
	logger := observability.FromContext(ctx)
	key := cache.Key(req.Content)

	if entry, ok := s.cached(ctx, key); ok {
		w.Header().Set(CacheHeader, "HIT")
		writeRaw(w, entry.Status, entry.Body)
		return
	}

	status, body, err := s.runValidation(ctx, req.Content)
	if err != nil {
		httputil.WriteServiceUnavailable(w, err.Error())
		return
	}

	if s.cache != nil {
		entry, err := json.Marshal(cachedResponse{Status: status, Body: body})
		if err == nil {
			err = s.cache.Set(ctx, key, entry)
		}
		if err != nil {
			logger.WithError(err).Warn("Failed to cache validation result")
		}
	}

	w.Header().Set(CacheHeader, "MISS")
	writeRaw(w, status, body)
}

// runValidation returns the status and encoded body for content. The
// error is only set when the request was canceled.
func (s *Server) runValidation(ctx context.Context, content string) (int, []byte, error) {
	result, err := s.validator.ValidateSource(ctx, content)

	var syntaxErr *parser.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		body, err := json.Marshal(httputil.ErrorResponse{
			Error:   syntaxErr.Error(),
			Details: syntaxErr.Pos,
		})
		return http.StatusBadRequest, body, err
	case err != nil:
		return 0, nil, err
	}

	resp := ValidateResponse{
		Valid: result.Valid,
		RunID: result.RunID.String(),
	}
	status := http.StatusOK
	if result.Valid {
		resp.Datamodel = result.Datamodel
	} else {
		resp.Errors = result.Errors
		status = http.StatusUnprocessableEntity
	}

	body, err := json.Marshal(resp)
	return status, body, err
}

func (s *Server) cached(ctx context.Context, key string) (cachedResponse, bool) {
	var entry cachedResponse
	if s.cache == nil {
		return entry, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, false
	}
	return entry, true
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

// getSchema handles GET /schema
func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil || s.loader.Current() == nil {
		httputil.WriteServiceUnavailable(w, loader.ErrNoSchema.Error())
		return
	}
	httputil.WriteJSONOrError(w, http.StatusOK, s.loader.Current(), "failed to encode schema")
}

// reloadSchema handles POST /schema/reload
func (s *Server) reloadSchema(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		httputil.WriteServiceUnavailable(w, "schema loading is not configured")
		return
	}

	schema, err := s.loader.Load(r.Context())
	var schemaErr *loader.SchemaError
	var syntaxErr *parser.SyntaxError
	switch {
	case errors.As(err, &schemaErr):
		httputil.WriteDetailedError(w, http.StatusUnprocessableEntity,
			fmt.Errorf("schema has %d directive error(s), keeping the previous schema", len(schemaErr.Errors)),
			schemaErr.Errors)
	case errors.As(err, &syntaxErr):
		httputil.WriteDetailedError(w, http.StatusUnprocessableEntity, syntaxErr, syntaxErr.Pos)
	case err != nil:
		httputil.WriteInternalError(w, err)
	default:
		httputil.WriteJSONOrError(w, http.StatusOK, schema, "failed to encode schema")
	}
}

// listDirectives handles GET /directives
func (s *Server) listDirectives(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOrError(w, http.StatusOK, DirectivesResponse{
		Directives: s.validator.Catalog().Names(),
	}, "failed to encode directives")
}

// getDirectives handles GET /directives/{kind}
func (s *Server) getDirectives(w http.ResponseWriter, r *http.Request) {
	kind, ok := httputil.ParsePathStringOrError(w, r, "kind")
	if !ok {
		return
	}

	names, ok := s.validator.Catalog().Names()[kind]
	if !ok {
		httputil.WriteNotFoundError(w, fmt.Sprintf("unknown node kind %q", kind))
		return
	}
	httputil.WriteJSONOrError(w, http.StatusOK, names, "failed to encode directives")
}
