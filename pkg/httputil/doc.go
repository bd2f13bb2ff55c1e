// Package httputil provides HTTP helpers shared by the dml API handlers.
//
// Response helpers write JSON bodies with a consistent error shape:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteBadRequest(w, "content is required")
//	httputil.WriteDetailedError(w, http.StatusUnprocessableEntity, err, errs)
//
// Request helpers decode JSON and read gorilla/mux path variables:
//
//	var req ValidateRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // error response already written
//	}
//
// Middleware covers panic recovery, request IDs, request logging and body
// size limits, and composes with Chain:
//
//	handler := httputil.Chain(
//		httputil.RecoveryMiddleware(logger),
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//	)(router)
package httputil
