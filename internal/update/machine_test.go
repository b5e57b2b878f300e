package update

import (
	"testing"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name  string
		from  domain.UpdateState
		event domain.UpdateEventKind
		want  domain.UpdateState
		ok    bool
	}{
		{name: "idle check", from: domain.UpdateIdle, event: domain.UpdateEventChecking, want: domain.UpdateChecking, ok: true},
		{name: "recheck after no-update", from: domain.UpdateNoUpdate, event: domain.UpdateEventChecking, want: domain.UpdateChecking, ok: true},
		{name: "recheck after error", from: domain.UpdateError, event: domain.UpdateEventChecking, want: domain.UpdateChecking, ok: true},
		{name: "checking finds nothing", from: domain.UpdateChecking, event: domain.UpdateEventNoUpdate, want: domain.UpdateNoUpdate, ok: true},
		{name: "checking finds update", from: domain.UpdateChecking, event: domain.UpdateEventAvailable, want: domain.UpdateAvailable, ok: true},
		{name: "first progress starts download", from: domain.UpdateAvailable, event: domain.UpdateEventProgress, want: domain.UpdateDownloading, ok: true},
		{name: "progress stays downloading", from: domain.UpdateDownloading, event: domain.UpdateEventProgress, want: domain.UpdateDownloading, ok: true},
		{name: "download completes", from: domain.UpdateDownloading, event: domain.UpdateEventDownloaded, want: domain.UpdateDownloaded, ok: true},
		{name: "instant download completes", from: domain.UpdateAvailable, event: domain.UpdateEventDownloaded, want: domain.UpdateDownloaded, ok: true},
		{name: "error while checking", from: domain.UpdateChecking, event: domain.UpdateEventError, want: domain.UpdateError, ok: true},
		{name: "error while downloading", from: domain.UpdateDownloading, event: domain.UpdateEventError, want: domain.UpdateError, ok: true},

		// Downloading is only reachable through Checking → Available.
		{name: "downloaded cannot restart download", from: domain.UpdateDownloaded, event: domain.UpdateEventProgress, want: domain.UpdateDownloaded, ok: false},
		{name: "deferred cannot restart download", from: domain.UpdateDeferred, event: domain.UpdateEventProgress, want: domain.UpdateDeferred, ok: false},
		{name: "no-update cannot start download", from: domain.UpdateNoUpdate, event: domain.UpdateEventProgress, want: domain.UpdateNoUpdate, ok: false},
		{name: "error cannot start download", from: domain.UpdateError, event: domain.UpdateEventProgress, want: domain.UpdateError, ok: false},
		{name: "no-update cannot go available", from: domain.UpdateNoUpdate, event: domain.UpdateEventAvailable, want: domain.UpdateNoUpdate, ok: false},

		// Terminal states absorb.
		{name: "deferred absorbs errors", from: domain.UpdateDeferred, event: domain.UpdateEventError, want: domain.UpdateDeferred, ok: false},
		{name: "installing absorbs errors", from: domain.UpdateInstalling, event: domain.UpdateEventError, want: domain.UpdateInstalling, ok: false},
		{name: "deferred refuses check", from: domain.UpdateDeferred, event: domain.UpdateEventChecking, want: domain.UpdateDeferred, ok: false},
		{name: "downloading refuses check", from: domain.UpdateDownloading, event: domain.UpdateEventChecking, want: domain.UpdateDownloading, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := transition(tt.from, tt.event)
			if got != tt.want || ok != tt.ok {
				t.Errorf("transition(%s, %s) = (%s, %v), want (%s, %v)",
					tt.from, tt.event, got, ok, tt.want, tt.ok)
			}
		})
	}
}
