// Package wayback talks to the Internet Archive: the CDX snapshot index
// and the snapshot retrieval endpoint.
package wayback

import "net/http"

// SnapshotRef identifies one archived capture of a URL.
type SnapshotRef struct {
	// Timestamp is the 14-digit capture stamp, e.g. "20230615120000".
	Timestamp string
	// Original is the URL as captured.
	Original string
}

// QueryOptions bound a CDX index query.
type QueryOptions struct {
	// Limit caps the number of snapshots returned; 0 means no cap.
	Limit int
	// From and To are optional 14-digit timestamp bounds.
	From string
	To   string
}

// QueryResult is the outcome of a CDX index query. A transport or
// decode failure degrades to zero snapshots rather than an error so a
// single bad query cannot abort a batch run; Degraded and Err keep the
// failure cause distinguishable from a genuinely empty index.
type QueryResult struct {
	Snapshots []SnapshotRef
	Degraded  bool
	Err       error
}

// Snapshot is the raw HTTP payload of one archived capture.
type Snapshot struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}
