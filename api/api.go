// Package api встраивает OpenAPI-описание HTTP API в бинарник.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
