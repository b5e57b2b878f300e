// Package window owns the singleton UI window: creation, the ready-to-show
// milestone, platform-conditioned teardown and reactivation, and outbound
// navigation interception.
package window

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

// ErrWindowExists is returned by Create when the singleton already exists.
var ErrWindowExists = errors.New("window: singleton already exists")

// ErrNoWindow reports the ready-to-show milestone firing with no window.
// This is a lifecycle ordering bug in the caller and must not be swallowed.
var ErrNoWindow = errors.New("window: ready-to-show with no window present")

// Manager 管理单例窗口
//
// The Manager is the only component that mutates the Window; the update
// controller and orchestrator read it through Current.
type Manager struct {
	host   Host
	policy ClosePolicy

	mu         sync.Mutex
	win        *domain.Window
	lastConfig domain.WindowConfig
}

func NewManager(host Host, policy ClosePolicy) *Manager {
	return &Manager{host: host, policy: policy}
}

// Current returns the live window, or nil when none exists. Callers must
// treat the result as read-only.
func (m *Manager) Current() *domain.Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.win
}

// Create realises the singleton window. It fails if one already exists and
// schedules the presentation content load as a side effect.
func (m *Manager) Create(cfg domain.WindowConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.win != nil {
		return ErrWindowExists
	}
	if err := m.host.CreateWindow(cfg); err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	m.win = &domain.Window{State: domain.WindowCreatedHidden, Config: cfg}
	m.lastConfig = cfg
	log.Printf("[Window] Created (%dx%d, entry=%s)", cfg.Width, cfg.Height, cfg.EntryURL)
	return nil
}

// HandleReadyToShow runs when the presentation layer reaches its first
// renderable frame: minimise if configured to start minimised, show
// otherwise, and apply the post-mount background colour.
func (m *Manager) HandleReadyToShow() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.win == nil {
		return ErrNoWindow
	}

	m.host.SetBackgroundColour(m.win.Config.ContentColour)
	if m.win.Config.StartMinimised {
		m.host.MinimiseWindow()
		m.win.State = domain.WindowMinimised
		log.Println("[Window] Ready to show - starting minimised")
		return nil
	}

	m.host.ShowWindow()
	m.win.State = domain.WindowVisible
	log.Println("[Window] Ready to show - visible")
	return nil
}

// HandleClosed runs on user-initiated close. This is the only path that
// clears the singleton reference. It reports whether the process should
// quit, which is the injected policy's call; the actual teardown belongs to
// the close hook that asked.
func (m *Manager) HandleClosed() bool {
	m.mu.Lock()
	m.win = nil
	m.mu.Unlock()

	if m.policy.QuitOnLastWindowClosed() {
		log.Println("[Window] Closed - quitting")
		return true
	}
	log.Println("[Window] Closed - staying resident")
	return false
}

// HandleActivate runs on application reactivation (dock or taskbar click).
// A window is recreated only while none exists; an existing window is left
// alone, not refocused.
func (m *Manager) HandleActivate() {
	m.mu.Lock()
	if m.win != nil {
		m.mu.Unlock()
		return
	}
	cfg := m.lastConfig
	m.mu.Unlock()

	log.Println("[Window] Reactivated with no window - recreating")
	if err := m.Create(cfg); err != nil {
		log.Printf("Warning: [Window] Recreate on activate failed: %v", err)
	}
}

// HandleFocusGained notifies the presentation layer to refresh its state
// when the application returns to the foreground.
func (m *Manager) HandleFocusGained() {
	m.mu.Lock()
	win := m.win
	m.mu.Unlock()
	if win == nil {
		return
	}
	m.host.EmitEvent(domain.ChannelRefreshState, domain.RefreshPayload)
}

// HandleNavigation intercepts any top-level navigation attempt from the
// rendered content: the in-app navigation is cancelled and the URL goes to
// the system browser instead.
func (m *Manager) HandleNavigation(url string) {
	log.Printf("[Window] External navigation intercepted: %s", url)
	m.host.OpenExternal(url)
}
