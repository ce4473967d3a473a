package static

import _ "embed"

// APIGuide is the embedded markdown reference of the HTTP API.
//
//go:embed api.md
var APIGuide string
