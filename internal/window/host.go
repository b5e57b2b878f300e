package window

import "github.com/taskdeck-app/taskdeck/internal/domain"

// Host abstracts the native windowing effects the manager drives. The real
// implementation sits on the Wails runtime; tests substitute a recorder.
type Host interface {
	// CreateWindow realises the native window from cfg and schedules the
	// presentation content load from cfg.EntryURL.
	CreateWindow(cfg domain.WindowConfig) error
	ShowWindow()
	MinimiseWindow()
	// SetBackgroundColour applies the post-mount content colour.
	SetBackgroundColour(c domain.RGBA)
	// OpenExternal hands a URL to the platform's default browser.
	OpenExternal(url string)
	// EmitEvent sends a one-way message to the presentation process.
	EmitEvent(channel domain.Channel, payload interface{})
}
