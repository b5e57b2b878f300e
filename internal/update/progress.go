package update

import (
	"io"
	"time"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

// progressInterval throttles progress events during a transfer.
const progressInterval = 500 * time.Millisecond

// progressReader counts bytes through an io.Reader and reports sampled
// transfer progress. Events are informational only and never alter the
// download control flow.
type progressReader struct {
	r      io.Reader
	total  int64
	report func(domain.DownloadProgress)

	transferred int64
	lastEmit    time.Time
	lastBytes   int64
}

func newProgressReader(r io.Reader, total int64, report func(domain.DownloadProgress)) *progressReader {
	return &progressReader{r: r, total: total, report: report, lastEmit: time.Now()}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.transferred += int64(n)

	if elapsed := time.Since(p.lastEmit); elapsed >= progressInterval {
		p.emit(elapsed)
	}
	return n, err
}

// finish emits the terminal 100% sample once the copy is done.
func (p *progressReader) finish() {
	p.emit(time.Since(p.lastEmit))
}

func (p *progressReader) emit(elapsed time.Duration) {
	progress := domain.DownloadProgress{
		Transferred: p.transferred,
		Total:       p.total,
	}
	if p.total > 0 {
		progress.Percent = float64(p.transferred) / float64(p.total) * 100
	}
	if elapsed > 0 {
		progress.BytesPerSecond = float64(p.transferred-p.lastBytes) / elapsed.Seconds()
	}
	p.report(progress)

	p.lastEmit = time.Now()
	p.lastBytes = p.transferred
}
