// Package desktop binds the orchestration core to the Wails runtime and the
// system tray. Everything here is a thin effect layer; policy lives in the
// window, router and update packages.
package desktop

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

// TrayActions are the orchestrator operations reachable from the tray menu.
type TrayActions interface {
	ShowWindow()
	CheckForUpdates()
	Quit()
}

// WailsHost adapts the Wails runtime to the window.Host, router.Bus and
// update.Dialog contracts. The runtime context arrives at OnStartup; calls
// before that fail softly because the native window does not exist yet.
type WailsHost struct {
	mu  sync.Mutex
	ctx context.Context
}

func NewWailsHost() *WailsHost {
	return &WailsHost{}
}

// SetContext installs the runtime context delivered by OnStartup.
func (h *WailsHost) SetContext(ctx context.Context) {
	h.mu.Lock()
	h.ctx = ctx
	h.mu.Unlock()
}

func (h *WailsHost) context() (context.Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctx, h.ctx != nil
}

// CreateWindow realises the singleton: Wails owns the native handle, so
// creation here means sizing it, painting the frame, and pointing the
// webview at the presentation entry point.
func (h *WailsHost) CreateWindow(cfg domain.WindowConfig) error {
	ctx, ok := h.context()
	if !ok {
		return fmt.Errorf("desktop: runtime context not ready")
	}
	runtime.WindowSetSize(ctx, cfg.Width, cfg.Height)
	runtime.WindowSetBackgroundColour(ctx, cfg.FrameColour.R, cfg.FrameColour.G, cfg.FrameColour.B, cfg.FrameColour.A)
	runtime.WindowExecJS(ctx, fmt.Sprintf(`window.location.href = 'wails://wails/%s';`, cfg.EntryURL))
	return nil
}

func (h *WailsHost) ShowWindow() {
	if ctx, ok := h.context(); ok {
		runtime.WindowShow(ctx)
		runtime.WindowUnminimise(ctx)
	}
}

// HideWindow keeps the process resident with no visible window; used on the
// platform whose close convention does not quit.
func (h *WailsHost) HideWindow() {
	if ctx, ok := h.context(); ok {
		runtime.WindowHide(ctx)
	}
}

func (h *WailsHost) MinimiseWindow() {
	if ctx, ok := h.context(); ok {
		runtime.WindowMinimise(ctx)
	}
}

func (h *WailsHost) SetBackgroundColour(c domain.RGBA) {
	if ctx, ok := h.context(); ok {
		runtime.WindowSetBackgroundColour(ctx, c.R, c.G, c.B, c.A)
	}
}

func (h *WailsHost) OpenExternal(url string) {
	if ctx, ok := h.context(); ok {
		runtime.BrowserOpenURL(ctx, url)
	}
}

func (h *WailsHost) EmitEvent(channel domain.Channel, payload interface{}) {
	if ctx, ok := h.context(); ok {
		runtime.EventsEmit(ctx, string(channel), payload)
	}
}

func (h *WailsHost) Quit() {
	if ctx, ok := h.context(); ok {
		runtime.Quit(ctx)
	}
}

// Subscribe registers a presentation→host channel handler on the Wails
// event system. Payloads are fire-and-forget; only the first event argument
// is meaningful on these channels.
func (h *WailsHost) Subscribe(channel domain.Channel, handler func(payload interface{})) {
	ctx, ok := h.context()
	if !ok {
		return
	}
	runtime.EventsOn(ctx, string(channel), func(optionalData ...interface{}) {
		var payload interface{}
		if len(optionalData) > 0 {
			payload = optionalData[0]
		}
		handler(payload)
	})
}

// ConfirmInstall shows the blocking update confirmation anchored to the
// window. "Update Now" is the default selection; dismissing counts as
// cancel. Windows renders question dialogs with Yes/No labels.
func (h *WailsHost) ConfirmInstall(manifest *domain.UpdateManifest) (bool, error) {
	ctx, ok := h.context()
	if !ok {
		return false, fmt.Errorf("desktop: runtime context not ready")
	}

	message := "A new version of Taskdeck is ready to install."
	if manifest != nil {
		message = fmt.Sprintf("Taskdeck %s is ready to install. Restart now to apply the update?", manifest.Version)
	}
	result, err := runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         "Update Available",
		Message:       message,
		Buttons:       []string{"Update Now", "Cancel"},
		DefaultButton: "Update Now",
		CancelButton:  "Cancel",
	})
	if err != nil {
		return false, err
	}
	return result == "Update Now" || result == "Yes", nil
}
