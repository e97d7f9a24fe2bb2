// Package server exposes program evaluation and formatting over HTTP.
//
// Routes:
//
//	POST /eval     program source in, {"value": v} out
//	POST /format   program source in, canonical native text out
//	GET  /healthz  liveness probe
//
// Programs that fail to lex, parse or evaluate are answered with status 422
// and a body describing the positioned error:
//
//	{"error": {"kind": "division by zero", "message": "...", "line": 1, "column": 3}}
//
// A Server optionally carries a prelude of definitions bound before every
// request's program.
package server
