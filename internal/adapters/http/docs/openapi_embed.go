package docs

import _ "embed"

// OpenAPI is the raw OpenAPI document served at /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
