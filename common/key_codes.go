package common

import "strings"

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII)
	KeyA     = 65  // A key (ASCII)
	KeyS     = 83  // S key (ASCII)
	KeyD     = 68  // D key (ASCII)
	KeyF     = 70  // F key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)
	Key6 = 54 // 6 key (ASCII)
	Key7 = 55 // 7 key (ASCII)
	Key8 = 56 // 8 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// KeyCodeFromName resolves a configuration key name to its virtual key code.
// Single letters and digits map to their ASCII code; "space" and "esc" are also accepted.
//
// Parameters:
//   - name: the key name, case-insensitive (e.g. "1", "f", "space")
//
// Returns:
//   - uint32: the virtual key code
//   - bool: false if the name is not a known key
func KeyCodeFromName(name string) (uint32, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	switch n {
	case "SPACE":
		return KeySpace, true
	case "ESC", "ESCAPE":
		return KeyEsc, true
	}
	if len(n) != 1 {
		return 0, false
	}
	c := n[0]
	if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return uint32(c), true
	}
	return 0, false
}
