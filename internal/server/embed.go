package server

import _ "embed"

// indexHTML is the single page served at the root: the live video view
// and the Web Audio graph consuming the broadcast control signals.
//
//go:embed web/index.html
var indexHTML []byte
