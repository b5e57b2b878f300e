// Package update drives the auto-update session: check, download, user
// confirmation, and the final quit-and-relaunch. All failures on this path
// are non-fatal to the host; they end the session in the Error state and
// surface only through logs.
package update

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

// Gateway is the external update-delivery subsystem. Check issues a check
// whose lifecycle arrives as events; the host trusts the gateway for
// transport and package integrity.
type Gateway interface {
	Check() error
	Events() <-chan domain.UpdateEvent
	// QuitAndInstall relaunches into the downloaded version and terminates
	// this process on success.
	QuitAndInstall() error
}

// Dialog presents the blocking install confirmation, anchored to the
// current window. Returns true when the user picks "Update Now".
type Dialog interface {
	ConfirmInstall(manifest *domain.UpdateManifest) (bool, error)
}

// WindowRef is the read-only back-reference to the window singleton.
type WindowRef interface {
	Current() *domain.Window
}

// Controller 更新状态机控制器
type Controller struct {
	gateway Gateway
	dialog  Dialog
	windows WindowRef

	sf singleflight.Group

	mu        sync.Mutex
	state     domain.UpdateState
	manifest  *domain.UpdateManifest
	listeners []func(domain.UpdateState)

	done chan struct{}
}

func NewController(gateway Gateway, dialog Dialog, windows WindowRef) *Controller {
	return &Controller{
		gateway: gateway,
		dialog:  dialog,
		windows: windows,
		state:   domain.UpdateIdle,
		done:    make(chan struct{}),
	}
}

// State returns the current session state.
func (c *Controller) State() domain.UpdateState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AddListener registers an observer notified on every state change. Must be
// called before Start.
func (c *Controller) AddListener(fn func(domain.UpdateState)) {
	c.listeners = append(c.listeners, fn)
}

// Start consumes gateway events until the context ends or the event channel
// closes. It returns once the loop has drained.
func (c *Controller) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-c.gateway.Events():
				if !ok {
					return
				}
				c.apply(ev)
			}
		}
	}()
}

// Wait blocks until the event loop has exited.
func (c *Controller) Wait() {
	<-c.done
}

// Check starts a new update session. Only one session is live at a time:
// concurrent calls collapse, and a check is refused unless the session is
// in Idle, NoUpdate or Error.
func (c *Controller) Check() error {
	_, err, _ := c.sf.Do("check", func() (interface{}, error) {
		c.mu.Lock()
		if !canCheck(c.state) {
			state := c.state
			c.mu.Unlock()
			return nil, fmt.Errorf("update: check refused in state %s", state)
		}
		c.manifest = nil
		c.mu.Unlock()

		return nil, c.gateway.Check()
	})
	return err
}

// apply runs one event through the transition function and performs its
// effect. It executes on the single controller goroutine; the confirmation
// dialog deliberately blocks that goroutine, and only that goroutine.
func (c *Controller) apply(ev domain.UpdateEvent) {
	c.mu.Lock()
	next, ok := transition(c.state, ev.Kind)
	if !ok {
		log.Printf("Warning: [Update] Dropping %s event in state %s", ev.Kind, c.state)
		c.mu.Unlock()
		return
	}
	c.state = next
	if ev.Manifest != nil {
		c.manifest = ev.Manifest
	}
	manifest := c.manifest
	c.mu.Unlock()

	c.notify(next)

	switch ev.Kind {
	case domain.UpdateEventChecking:
		log.Println("[Update] Checking for updates...")

	case domain.UpdateEventNoUpdate:
		log.Println("[Update] No update available")

	case domain.UpdateEventAvailable:
		// Download starts inside the gateway; no user opt-in at this stage.
		if manifest != nil {
			log.Printf("[Update] Update available: %s", manifest.Version)
		}

	case domain.UpdateEventProgress:
		log.Printf("[Update] Downloading: %s", ev.Progress)

	case domain.UpdateEventDownloaded:
		c.onDownloaded(manifest)

	case domain.UpdateEventError:
		log.Printf("[Update] Update failed: %v", ev.Err)
	}
}

// onDownloaded prompts for installation. Without a window there is nothing
// to anchor the dialog to: the confirmation is skipped entirely and the
// session stays Downloaded with no install action.
func (c *Controller) onDownloaded(manifest *domain.UpdateManifest) {
	if c.windows.Current() == nil {
		log.Println("[Update] Download complete, no window - deferring confirmation")
		return
	}

	install, err := c.dialog.ConfirmInstall(manifest)
	if err != nil {
		log.Printf("Warning: [Update] Confirmation dialog failed: %v", err)
		install = false
	}

	if !install {
		c.setState(domain.UpdateDeferred)
		log.Println("[Update] Install deferred by user")
		return
	}

	c.setState(domain.UpdateInstalling)
	log.Println("[Update] Installing and restarting...")
	if err := c.gateway.QuitAndInstall(); err != nil {
		// The process should be gone by now; reaching here means the
		// relaunch failed and this session is over.
		log.Printf("Warning: [Update] Install failed: %v", err)
		c.setState(domain.UpdateError)
	}
}

func (c *Controller) setState(state domain.UpdateState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	c.notify(state)
}

func (c *Controller) notify(state domain.UpdateState) {
	for _, fn := range c.listeners {
		fn(state)
	}
}
