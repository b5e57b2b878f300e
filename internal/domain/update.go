package domain

import "fmt"

// UpdateState 更新会话状态
type UpdateState string

const (
	UpdateIdle        UpdateState = "idle"
	UpdateChecking    UpdateState = "checking"
	UpdateNoUpdate    UpdateState = "no-update"
	UpdateAvailable   UpdateState = "available"
	UpdateDownloading UpdateState = "downloading"
	UpdateDownloaded  UpdateState = "downloaded"
	UpdateInstalling  UpdateState = "installing"
	UpdateDeferred    UpdateState = "deferred"
	UpdateError       UpdateState = "error"
)

// UpdateEventKind discriminates the gateway event variants.
type UpdateEventKind string

const (
	UpdateEventChecking   UpdateEventKind = "checking"
	UpdateEventAvailable  UpdateEventKind = "available"
	UpdateEventNoUpdate   UpdateEventKind = "no-update"
	UpdateEventProgress   UpdateEventKind = "progress"
	UpdateEventDownloaded UpdateEventKind = "downloaded"
	UpdateEventError      UpdateEventKind = "error"
)

// UpdateEvent is one lifecycle event emitted by the update gateway. Exactly
// one of Manifest, Progress and Err is populated, depending on Kind.
type UpdateEvent struct {
	Kind     UpdateEventKind
	Manifest *UpdateManifest
	Progress *DownloadProgress
	Err      error
}

// UpdateManifest describes an available release as reported by the feed.
type UpdateManifest struct {
	Version     string `json:"version"`
	PackageURL  string `json:"packageUrl"`
	PackageSize int64  `json:"packageSize"`
	ReleasedAt  string `json:"releasedAt"`
	Notes       string `json:"notes"`
}

// DownloadProgress 下载进度
type DownloadProgress struct {
	// BytesPerSecond is the transfer rate over the last sample window.
	BytesPerSecond float64
	Percent        float64
	Transferred    int64
	Total          int64
}

func (p DownloadProgress) String() string {
	return fmt.Sprintf("%.1f%% (%d/%d bytes, %.0f B/s)",
		p.Percent, p.Transferred, p.Total, p.BytesPerSecond)
}
