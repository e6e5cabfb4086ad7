package window

// WindowBuilderOption is a functional option applied to the window before the platform window is created.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested client area size in screen coordinates. On high-DPI displays the
// framebuffer reported by Width and Height can be larger.
//
// Parameters:
//   - width: requested width, ignored unless positive
//   - height: requested height, ignored unless positive
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithSizeLimits bounds interactive resizing. A zero bound leaves that side unlimited.
//
// Parameters:
//   - minWidth, minHeight: the smallest client area
//   - maxWidth, maxHeight: the largest client area
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.limits = sizeLimits{minWidth, minHeight, maxWidth, maxHeight}
	}
}
