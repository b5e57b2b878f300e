package diagnostics

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

func testSource() Snapshot {
	return Snapshot{
		InstanceID:  "inst-1",
		Version:     "dev",
		WindowState: domain.WindowVisible,
		UpdateState: domain.UpdateIdle,
	}
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	return resp.StatusCode, string(body)
}

func TestInspectorServesStagedBundle(t *testing.T) {
	page, err := Install(t.TempDir(), false)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	i := NewInspector(testSource)
	i.ServeFrom(filepath.Dir(page))
	if err := i.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(i.Stop)

	base := "http://" + i.Addr()

	// The attach page must resolve on the same host as /ws.
	for _, path := range []string{"/", "/index.html"} {
		status, body := get(t, base+path)
		if status != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, status)
		}
		if !strings.Contains(body, "Taskdeck Inspector") {
			t.Errorf("GET %s body = %q, want attach page", path, body)
		}
	}

	status, body := get(t, base+"/state")
	if status != http.StatusOK {
		t.Fatalf("GET /state status = %d, want 200", status)
	}
	if !strings.Contains(body, `"instanceId":"inst-1"`) {
		t.Errorf("GET /state body = %q, want snapshot JSON", body)
	}
}

func TestInstallReusesCachedBundle(t *testing.T) {
	dir := t.TempDir()
	first, err := Install(dir, false)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	second, err := Install(dir, false)
	if err != nil {
		t.Fatalf("Install() cached error = %v", err)
	}
	if first != second {
		t.Errorf("cached install path = %q, want %q", second, first)
	}
}
