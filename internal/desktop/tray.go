//go:build windows

package desktop

import (
	_ "embed"
	"log"

	"github.com/getlantern/systray"
)

//go:embed icon.ico
var iconData []byte

// TrayManager 管理系统托盘
type TrayManager struct {
	actions TrayActions

	menuShow   *systray.MenuItem
	menuUpdate *systray.MenuItem
	menuQuit   *systray.MenuItem
}

// NewTrayManager 创建托盘管理器
func NewTrayManager(actions TrayActions) *TrayManager {
	return &TrayManager{actions: actions}
}

// Start 启动托盘
func (t *TrayManager) Start() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayManager) onReady() {
	log.Println("[Tray] Initializing system tray...")

	systray.SetIcon(iconData)
	systray.SetTitle("Taskdeck")
	systray.SetTooltip("Taskdeck")

	t.menuShow = systray.AddMenuItem("Show Window", "Show the main window")
	systray.AddSeparator()
	t.menuUpdate = systray.AddMenuItem("Check for Updates", "Check for a new version")
	systray.AddSeparator()
	t.menuQuit = systray.AddMenuItem("Quit", "Quit Taskdeck")

	go t.handleMenuEvents()
}

func (t *TrayManager) onExit() {
	log.Println("[Tray] System tray exited")
}

func (t *TrayManager) handleMenuEvents() {
	for {
		select {
		case <-t.menuShow.ClickedCh:
			log.Println("[Tray] Show window clicked")
			t.actions.ShowWindow()

		case <-t.menuUpdate.ClickedCh:
			log.Println("[Tray] Check for updates clicked")
			t.actions.CheckForUpdates()

		case <-t.menuQuit.ClickedCh:
			log.Println("[Tray] Quit clicked")
			t.actions.Quit()
			systray.Quit()
			return
		}
	}
}
