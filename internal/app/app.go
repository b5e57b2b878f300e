// Package app wires the host-process components together and owns the
// shutdown and reactivation policy. It is the only place that knows about
// every subsystem; the subsystems only know their own contracts.
package app

import (
	"context"
	"log"
	"path/filepath"
	goruntime "runtime"

	"github.com/taskdeck-app/taskdeck/internal/config"
	"github.com/taskdeck-app/taskdeck/internal/desktop"
	"github.com/taskdeck-app/taskdeck/internal/diagnostics"
	"github.com/taskdeck-app/taskdeck/internal/domain"
	"github.com/taskdeck-app/taskdeck/internal/repository/gormdb"
	"github.com/taskdeck-app/taskdeck/internal/repository/keyring"
	"github.com/taskdeck-app/taskdeck/internal/router"
	"github.com/taskdeck-app/taskdeck/internal/update"
	"github.com/taskdeck-app/taskdeck/internal/version"
	"github.com/taskdeck-app/taskdeck/internal/window"
)

// App 应用编排器
type App struct {
	cfg    *config.Config
	policy window.ClosePolicy

	host      *desktop.WailsHost
	windows   *window.Manager
	router    *router.Router
	gateway   *update.HTTPGateway
	updates   *update.Controller
	inspector *diagnostics.Inspector
	db        *gormdb.DB

	cancel context.CancelFunc
}

// New builds the component graph. Nothing touches the native window until
// Startup delivers the runtime context.
func New(cfg *config.Config) (*App, error) {
	db, err := gormdb.NewDBWithDSN(cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		policy: window.PolicyForOS(goruntime.GOOS),
		host:   desktop.NewWailsHost(),
		db:     db,
	}

	a.windows = window.NewManager(a.host, a.policy)
	a.router = router.NewRouter(router.Gateways{
		Credentials: keyring.NewCredentialStore(),
		Profiles:    gormdb.NewProfileRepository(db),
		Tasks:       gormdb.NewTaskListRepository(db),
	}, a.host)
	a.gateway = update.NewHTTPGateway(cfg.UpdateURL, version.Version, cfg.DataDir)
	a.updates = update.NewController(a.gateway, a.host, a.windows)

	if cfg.Dev {
		a.inspector = diagnostics.NewInspector(a.snapshot)
		a.updates.AddListener(a.inspector.BroadcastUpdateState)
	}

	return a, nil
}

// Startup runs on platform-ready: diagnostics tooling first (dev builds
// only, failures logged and ignored), then the window, the message
// channels, and finally the update session.
func (a *App) Startup(ctx context.Context) {
	log.Printf("[App] Starting Taskdeck %s (instance %s)", version.Info(), a.cfg.InstanceID)
	a.host.SetContext(ctx)

	if a.inspector != nil {
		if page, err := diagnostics.Install(a.cfg.DataDir, a.cfg.ForceInspectorDownload); err != nil {
			log.Printf("Warning: [App] Inspector install failed, continuing without: %v", err)
		} else {
			a.inspector.ServeFrom(filepath.Dir(page))
			if err := a.inspector.Start(); err != nil {
				log.Printf("Warning: [App] Inspector start failed, continuing without: %v", err)
			}
		}
	}

	if err := a.windows.Create(a.cfg.WindowConfig()); err != nil {
		log.Printf("Warning: [App] Window create failed: %v", err)
	}

	a.router.Register(a.host)
	a.host.Subscribe(domain.ChannelAppFocus, func(interface{}) {
		a.windows.HandleFocusGained()
	})
	a.host.Subscribe(domain.ChannelExternalNavigate, func(payload interface{}) {
		if url, ok := payload.(string); ok && url != "" {
			a.windows.HandleNavigation(url)
		}
	})

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.gateway.CleanStaged()
	a.updates.Start(runCtx)
	a.CheckForUpdates()
}

// DomReady fires when the presentation layer can render its first frame.
// Reaching it with no window is a lifecycle ordering bug; it must abort
// loudly, not be papered over.
func (a *App) DomReady(ctx context.Context) {
	if err := a.windows.HandleReadyToShow(); err != nil {
		log.Panicf("[App] %v", err)
	}
}

// BeforeClose implements the platform close convention. Returning true
// keeps the process alive with the window hidden; returning false lets the
// runtime tear everything down.
func (a *App) BeforeClose(ctx context.Context) bool {
	if a.windows.HandleClosed() {
		return false
	}
	a.host.HideWindow()
	return true
}

// Shutdown releases host resources on process exit.
func (a *App) Shutdown(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.inspector != nil {
		a.inspector.Stop()
	}
	if err := a.db.Close(); err != nil {
		log.Printf("Warning: [App] Database close: %v", err)
	}
	log.Println("[App] Shutdown complete")
}

// ShowWindow reveals the window, recreating it first if the user closed it
// on the stay-resident platform.
func (a *App) ShowWindow() {
	a.windows.HandleActivate()
	a.host.ShowWindow()
}

// CheckForUpdates starts a new update session when the current one allows it.
func (a *App) CheckForUpdates() {
	if err := a.updates.Check(); err != nil {
		log.Printf("Warning: [App] %v", err)
	}
}

// Quit terminates the host process.
func (a *App) Quit() {
	a.host.Quit()
}

func (a *App) snapshot() diagnostics.Snapshot {
	snap := diagnostics.Snapshot{
		InstanceID:  a.cfg.InstanceID,
		Version:     version.Version,
		WindowState: domain.WindowClosed,
		UpdateState: a.updates.State(),
	}
	if win := a.windows.Current(); win != nil {
		snap.WindowState = win.State
	}
	return snap
}
