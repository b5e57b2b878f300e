package domain

// WindowState 窗口生命周期状态
type WindowState string

const (
	WindowUncreated     WindowState = "uncreated"
	WindowCreatedHidden WindowState = "created-hidden"
	WindowVisible       WindowState = "visible"
	WindowMinimised     WindowState = "minimised"
	WindowClosed        WindowState = "closed"
)

// Window is the process-wide singleton UI window. It is owned and mutated
// exclusively by the window manager; other components hold a read-only
// back-reference (the update controller anchors its confirm dialog to it,
// the orchestrator checks it on reactivation).
type Window struct {
	State  WindowState
	Config WindowConfig
}

// WindowConfig 窗口创建参数
type WindowConfig struct {
	// Width depends on mode: wider in development so the inspector fits.
	Width  int
	Height int

	// IconPath is resolved against the packaged resources root, or the
	// development asset root when running unpackaged.
	IconPath string

	// FrameColour paints the native frame before content loads;
	// ContentColour is applied once the presentation layer has mounted.
	FrameColour   RGBA
	ContentColour RGBA

	// StartMinimised keeps the window out of the way on first show.
	StartMinimised bool

	// EntryURL is the resolved presentation-process entry point.
	EntryURL string
}

// RGBA 窗口背景色
type RGBA struct {
	R, G, B, A uint8
}

// Default window geometry. Height is fixed in both modes.
const (
	WindowWidthProd = 960
	WindowWidthDev  = 1280
	WindowHeight    = 680
)
