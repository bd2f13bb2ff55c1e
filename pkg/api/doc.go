// Package api provides the HTTP API of dml-server.
//
// Routes:
//
//	POST /validate          validate {"content": "..."}; 400 syntax, 422 directive errors
//	GET  /schema            the schema loaded from disk; 503 until one is valid
//	POST /schema/reload     reload from disk; 422 keeps the previous schema
//	GET  /directives        registered directive names per node kind
//	GET  /directives/{kind} directive names for field, model or enum
//	GET  /healthz, /readyz  liveness and readiness
//	GET  /metrics           Prometheus metrics
//
// Responses to /validate are cached by the sha256 of the content; the
// X-Cache header tells whether a response was a HIT or a MISS. With
// Options.RateLimiter set, /validate answers 429 once a client exceeds its
// limit.
//
//	server := api.NewServer(api.Options{Validator: v, Loader: l, Cache: c})
//	http.ListenAndServe(":8080", server.Handler())
package api
