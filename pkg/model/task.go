package model

import (
	"strings"
	"time"
)

const (
	// MaxPathLen is the longest album path the queue will accept.
	MaxPathLen = 127

	// MinPathLen is the shortest path that still carries a title ID.
	MinPathLen = 36

	// TitleIDLen is the length of the title identifier embedded in capture
	// filenames.
	TitleIDLen = 32
)

// FileKind classifies an album item by its capture type.
type FileKind int

const (
	KindImage FileKind = iota
	KindVideo
)

func (k FileKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// KindOf infers the capture type from the file extension.
func KindOf(path string) FileKind {
	if strings.HasSuffix(path, ".mp4") {
		return KindVideo
	}
	return KindImage
}

// MaxAttempts returns the upload attempt budget for a file kind. Videos get
// one extra attempt since larger transfers fail more often.
func (k FileKind) MaxAttempts() int {
	if k == KindVideo {
		return 3
	}
	return 2
}

// Timeouts holds the network timeouts applied to one upload attempt.
type Timeouts struct {
	Connect time.Duration
	Idle    time.Duration
	Total   time.Duration
}

// TimeoutsFor returns the per-kind network timeouts.
func TimeoutsFor(kind FileKind) Timeouts {
	if kind == KindVideo {
		return Timeouts{Connect: 15 * time.Second, Idle: 60 * time.Second, Total: 300 * time.Second}
	}
	return Timeouts{Connect: 10 * time.Second, Idle: 30 * time.Second, Total: 60 * time.Second}
}

// UploadTask is one pending delivery: an album item path and its size at
// discovery time.
type UploadTask struct {
	Path string
	Size int64
}

// Kind returns the capture type of the task's file.
func (t UploadTask) Kind() FileKind {
	return KindOf(t.Path)
}

// TitleID extracts the 32-character title identifier embedded at the tail of
// a capture path. It returns false when the path is too short to carry one.
func TitleID(path string) (string, bool) {
	if len(path) < MinPathLen {
		return "", false
	}
	return path[len(path)-MinPathLen : len(path)-MinPathLen+TitleIDLen], true
}
