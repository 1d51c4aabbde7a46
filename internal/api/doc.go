// Package api serves the planning pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness probe
//	GET  /version      build information
//	POST /v1/sequence  plan a removal sequence for a JSON plan
//	POST /v1/graph     the obstruction graph of a JSON plan as DOT or SVG
//
// Request bodies use the JSON form of a plan file (see package planfile).
// Errors are returned as {"error": {"code": ..., "message": ...}} with a
// status derived from the error code.
package api
