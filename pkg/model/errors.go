package model

import "errors"

// ErrRejected marks an upload failure that must not be retried: the path is
// too short to carry a title ID, the extension is unknown, or a required
// destination field is unconfigured. Wrap it with fmt.Errorf and %w so
// callers can test with errors.Is.
var ErrRejected = errors.New("upload rejected")
