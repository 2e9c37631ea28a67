package plugnotas

import "errors"

var (
	// ErrSourceUnavailable is returned for network failures, auth rejections
	// and 5xx responses from the fiscal API. Callers decide retry vs skip.
	ErrSourceUnavailable = errors.New("plugnotas: source unavailable")

	// ErrDocumentNotFound is returned when a note or binary document does
	// not exist on the source side. Recoverable at record granularity.
	ErrDocumentNotFound = errors.New("plugnotas: document not found")
)
