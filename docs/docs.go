// Package docs embeds the OpenAPI description served under /docs.
package docs

import _ "embed"

//go:embed swagger.yml
var Swagger []byte
