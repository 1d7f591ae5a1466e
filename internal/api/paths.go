// Package api provides the HTTP client for the Samarth chat backend.
package api

// Endpoint paths, relative to the configured server URL.
const (
	PathChat     = "/api/chat"
	PathExamples = "/api/examples"
)

// GJSON paths for fields of backend answers.
const (
	PathSuccess     = "success"
	PathType        = "type"
	PathResponse    = "response"
	PathQueryType   = "query_type"
	PathError       = "error"
	PathExampleList = "examples"
)
