package window

// ClosePolicy decides what happens to the process when the last window
// closes. It is selected once at startup and injected; nothing else in the
// manager branches on the platform.
type ClosePolicy struct {
	stayResident bool
}

// QuitOnLastWindowClosed reports whether closing the last window terminates
// the process.
func (p ClosePolicy) QuitOnLastWindowClosed() bool {
	return !p.stayResident
}

// PolicyForOS returns the close policy for a GOOS value. macOS convention
// keeps applications resident after all windows close; everywhere else the
// process exits.
func PolicyForOS(goos string) ClosePolicy {
	return ClosePolicy{stayResident: goos == "darwin"}
}
