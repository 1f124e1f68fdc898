// Package api implements the upload senders for the three destination
// protocols. Each sender performs exactly one delivery attempt; retry policy
// lives in pkg/uploader.
package api

import (
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/snapcourier/snapcourier/pkg/model"
)

// ApiError represents a non-success HTTP response from a destination.
type ApiError struct {
	StatusCode int
	Message    string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Message)
}

// Clients holds one resty client per file kind. Videos get longer timeouts
// since their transfers are larger.
type Clients struct {
	image *resty.Client
	video *resty.Client
}

// NewClients builds the per-kind HTTP clients with the kind's timeouts.
func NewClients() *Clients {
	return &Clients{
		image: newClient(model.TimeoutsFor(model.KindImage)),
		video: newClient(model.TimeoutsFor(model.KindVideo)),
	}
}

func newClient(t model.Timeouts) *resty.Client {
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: t.Connect}).DialContext,
		IdleConnTimeout:       t.Idle,
		ResponseHeaderTimeout: t.Idle,
	}
	return resty.New().
		SetTransport(transport).
		SetTimeout(t.Total)
}

// For returns the client matching the file kind.
func (c *Clients) For(kind model.FileKind) *resty.Client {
	if kind == model.KindVideo {
		return c.video
	}
	return c.image
}

// progressLogStep is the minimum transferred-byte delta between two progress
// log lines.
const progressLogStep = 100 * 1024

// progressReader streams a file body while logging remaining bytes at coarse
// intervals, so large uploads stay observable without flooding the log.
type progressReader struct {
	r          io.Reader
	remaining  int64
	lastLogged int64
	log        zerolog.Logger
}

func newProgressReader(r io.Reader, size int64, log zerolog.Logger) *progressReader {
	return &progressReader{r: r, remaining: size, lastLogged: size, log: log}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.remaining -= int64(n)
		if p.remaining <= 0 || p.lastLogged-p.remaining >= progressLogStep {
			p.log.Debug().Int64("bytes_remaining", p.remaining).Msg("upload progress")
			p.lastLogged = p.remaining
		}
	}
	return n, err
}

// checkTask validates the preconditions shared by every destination: the
// path must carry a title ID and the file's kind must be enabled for this
// destination. skip=true means a configured skip, which is not an error.
func checkTask(task model.UploadTask, uploadScreenshots, uploadMovies bool, log zerolog.Logger) (tid string, skip bool, err error) {
	tid, ok := model.TitleID(task.Path)
	if !ok {
		return "", false, fmt.Errorf("path too short to carry a title ID: %w", model.ErrRejected)
	}
	log.Debug().Str("title_id", tid).Msg("validated task")

	allowed := uploadScreenshots
	if task.Kind() == model.KindVideo {
		allowed = uploadMovies
	}
	if !allowed {
		log.Info().Str("file", task.Path).Msg("skipping upload, file type disabled")
		return tid, true, nil
	}
	return tid, false, nil
}
