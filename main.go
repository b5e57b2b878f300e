package main

import (
	"context"
	"embed"
	"log"
	goruntime "runtime"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"github.com/taskdeck-app/taskdeck/internal/app"
	"github.com/taskdeck-app/taskdeck/internal/config"
	"github.com/taskdeck-app/taskdeck/internal/desktop"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize host application:", err)
	}

	// Create application menu (only for macOS)
	var appMenu *menu.Menu
	if goruntime.GOOS == "darwin" {
		appMenu = menu.NewMenu()
		appMenu.Append(menu.AppMenu())

		// Closing the window keeps the process resident on macOS; the menu
		// is the way back to a window once the tray is unavailable.
		fileMenu := appMenu.AddSubmenu("File")
		fileMenu.AddText("Show Window", nil, func(_ *menu.CallbackData) {
			a.ShowWindow()
		})
		fileMenu.AddSeparator()
		fileMenu.AddText("Check for Updates", nil, func(_ *menu.CallbackData) {
			a.CheckForUpdates()
		})
		fileMenu.AddSeparator()
		fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
			a.Quit()
		})

		// Edit Menu (for copy/paste support)
		appMenu.Append(menu.EditMenu())
	}

	wc := cfg.WindowConfig()
	err = wails.Run(&options.App{
		Title:       "Taskdeck",
		Width:       wc.Width,
		Height:      wc.Height,
		StartHidden: true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: wc.FrameColour.R, G: wc.FrameColour.G, B: wc.FrameColour.B, A: wc.FrameColour.A},
		OnStartup: func(ctx context.Context) {
			a.Startup(ctx)
			// 托盘在 goroutine 中运行，避免阻塞主线程
			go desktop.NewTrayManager(a).Start()
		},
		OnDomReady:    a.DomReady,
		OnBeforeClose: a.BeforeClose,
		OnShutdown:    a.Shutdown,
		Menu:          appMenu,
		Debug: options.Debug{
			OpenInspectorOnStartup: cfg.Dev,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				HideToolbarSeparator: true,
			},
			Appearance: mac.NSAppearanceNameDarkAqua,
			About: &mac.AboutInfo{
				Title:   "Taskdeck",
				Message: "Taskdeck Desktop\n© 2025 taskdeck-app",
			},
		},
	})

	if err != nil {
		log.Fatal("Error:", err)
	}
}
