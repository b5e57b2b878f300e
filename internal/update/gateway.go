package update

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"

	"github.com/taskdeck-app/taskdeck/internal/domain"
	"github.com/taskdeck-app/taskdeck/internal/version"
)

const (
	manifestPath   = "/manifest.json"
	requestTimeout = 30 * time.Second

	// stagedName is the downloaded binary awaiting install under the data dir.
	stagedName = "taskdeck-update"
)

// HTTPGateway implements Gateway against a release feed: a JSON manifest
// plus a zstd-compressed binary package. Transport responses may be gzip,
// brotli or zstd encoded. No retry: a failed check stays failed until the
// next explicit check.
type HTTPGateway struct {
	feedURL string
	current string
	dataDir string
	client  *http.Client
	// downloader has no overall timeout: package transfers run as long as
	// they need and are not cancellable from this layer.
	downloader *http.Client
	events     chan domain.UpdateEvent

	running atomic.Bool

	// relaunch is swapped out in tests; the real one never returns.
	relaunch func(path string) error
}

func NewHTTPGateway(feedURL, currentVersion, dataDir string) *HTTPGateway {
	g := &HTTPGateway{
		feedURL:    feedURL,
		current:    currentVersion,
		dataDir:    dataDir,
		client:     &http.Client{Timeout: requestTimeout},
		downloader: &http.Client{},
		events:     make(chan domain.UpdateEvent, 64),
	}
	g.relaunch = g.execRelaunch
	return g
}

func (g *HTTPGateway) Events() <-chan domain.UpdateEvent {
	return g.events
}

// Check starts one asynchronous check-and-download run. Its lifecycle is
// reported on Events; only one run may be in flight.
func (g *HTTPGateway) Check() error {
	if !g.running.CompareAndSwap(false, true) {
		return fmt.Errorf("update: check already in progress")
	}
	go func() {
		defer g.running.Store(false)
		g.run()
	}()
	return nil
}

func (g *HTTPGateway) run() {
	g.events <- domain.UpdateEvent{Kind: domain.UpdateEventChecking}

	manifest, err := g.fetchManifest()
	if err != nil {
		g.events <- domain.UpdateEvent{Kind: domain.UpdateEventError, Err: err}
		return
	}

	if !version.IsNewer(manifest.Version, g.current) {
		g.events <- domain.UpdateEvent{Kind: domain.UpdateEventNoUpdate}
		return
	}

	g.events <- domain.UpdateEvent{Kind: domain.UpdateEventAvailable, Manifest: manifest}

	if err := g.download(manifest); err != nil {
		g.events <- domain.UpdateEvent{Kind: domain.UpdateEventError, Err: err}
		return
	}

	g.events <- domain.UpdateEvent{Kind: domain.UpdateEventDownloaded, Manifest: manifest}
}

func (g *HTTPGateway) fetchManifest() (*domain.UpdateManifest, error) {
	req, err := http.NewRequest(http.MethodGet, g.feedURL+manifestPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Encoding", "zstd, br, gzip")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch manifest: unexpected status %s", resp.Status)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest domain.UpdateManifest
	if err := sonic.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if manifest.Version == "" || manifest.PackageURL == "" {
		return nil, fmt.Errorf("parse manifest: missing version or package URL")
	}
	return &manifest, nil
}

// download streams the package, reports progress, and stages the
// decompressed binary next to the database.
func (g *HTTPGateway) download(manifest *domain.UpdateManifest) error {
	resp, err := g.downloader.Get(manifest.PackageURL)
	if err != nil {
		return fmt.Errorf("download package: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download package: unexpected status %s", resp.Status)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = manifest.PackageSize
	}

	staged := g.StagedPath()
	tmp := staged + ".partial"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
	if err != nil {
		return fmt.Errorf("stage package: %w", err)
	}

	// The package itself is a zstd-compressed binary; decompress while
	// counting compressed bytes against the feed-reported total.
	counted := newProgressReader(resp.Body, total, func(p domain.DownloadProgress) {
		g.events <- domain.UpdateEvent{Kind: domain.UpdateEventProgress, Progress: &p}
	})
	dec, err := zstd.NewReader(counted)
	if err != nil {
		out.Close()
		return fmt.Errorf("stage package: %w", err)
	}

	_, copyErr := io.Copy(out, dec)
	dec.Close()
	counted.finish()
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("stage package: %w", copyErr)
	}

	if err := os.Rename(tmp, staged); err != nil {
		return fmt.Errorf("stage package: %w", err)
	}
	return nil
}

// StagedPath is where the downloaded binary waits for installation.
func (g *HTTPGateway) StagedPath() string {
	return filepath.Join(g.dataDir, stagedName)
}

// CleanStaged removes a leftover staged package from a previous run.
func (g *HTTPGateway) CleanStaged() {
	os.Remove(g.StagedPath())
	os.Remove(g.StagedPath() + ".partial")
}

// QuitAndInstall launches the staged binary and terminates this process.
func (g *HTTPGateway) QuitAndInstall() error {
	staged := g.StagedPath()
	if _, err := os.Stat(staged); err != nil {
		return fmt.Errorf("install: no staged package: %w", err)
	}
	return g.relaunch(staged)
}

func (g *HTTPGateway) execRelaunch(path string) error {
	cmd := exec.Command(path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("install: relaunch: %w", err)
	}
	os.Exit(0)
	return nil
}

// decodeBody unwraps the transport content encoding.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "zstd":
		dec, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "":
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}
