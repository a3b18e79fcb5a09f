// Package spec embeds the OpenAPI document of the travel orders API.
// The server serves it at /openapi.yaml and the request validator middleware
// loads it to check path and query parameters before handlers run.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
