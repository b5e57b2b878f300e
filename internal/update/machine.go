package update

import "github.com/taskdeck-app/taskdeck/internal/domain"

// transition applies one gateway event to the session state and reports
// whether the transition is legal. Illegal events leave the state untouched;
// the controller logs and drops them.
//
// Idle → Checking → {NoUpdate | Available} → Downloading → Downloaded →
// {Installing | Deferred}, with Error absorbing from any non-terminal state.
func transition(state domain.UpdateState, kind domain.UpdateEventKind) (domain.UpdateState, bool) {
	switch kind {
	case domain.UpdateEventChecking:
		if canCheck(state) || state == domain.UpdateChecking {
			return domain.UpdateChecking, true
		}

	case domain.UpdateEventNoUpdate:
		if state == domain.UpdateChecking {
			return domain.UpdateNoUpdate, true
		}

	case domain.UpdateEventAvailable:
		if state == domain.UpdateChecking {
			return domain.UpdateAvailable, true
		}

	case domain.UpdateEventProgress:
		if state == domain.UpdateAvailable || state == domain.UpdateDownloading {
			return domain.UpdateDownloading, true
		}

	case domain.UpdateEventDownloaded:
		// A small package may finish before any progress event arrives.
		if state == domain.UpdateAvailable || state == domain.UpdateDownloading {
			return domain.UpdateDownloaded, true
		}

	case domain.UpdateEventError:
		if !isTerminal(state) {
			return domain.UpdateError, true
		}
	}

	return state, false
}

// canCheck reports whether a new update session may start from state.
func canCheck(state domain.UpdateState) bool {
	switch state {
	case domain.UpdateIdle, domain.UpdateNoUpdate, domain.UpdateError:
		return true
	}
	return false
}

// isTerminal marks states the session never leaves: Installing hands off to
// the relaunch, Deferred waits for the user, Error absorbs until a manual
// re-check resets the session.
func isTerminal(state domain.UpdateState) bool {
	switch state {
	case domain.UpdateInstalling, domain.UpdateDeferred, domain.UpdateError:
		return true
	}
	return false
}
