// Package icon embeds the fallback tray icon used by backends that take
// raw image bytes instead of a themed icon name.
package icon

import _ "embed"

// Name is the themed icon used by backends that resolve icons by name.
const Name = "display-brightness-symbolic"

// Data is the embedded PNG fallback.
//
//go:embed brightness.png
var Data []byte
