package wayback

import (
	"context"
	"errors"
	"net"
)

// errorDetailLimit caps the message portion of a classified error so a
// verbose transport failure cannot blow up a dataset row.
const errorDetailLimit = 100

// ClassifyError maps a transport error onto the error_details
// vocabulary recorded in signal records: "Timeout", "ConnectionError",
// or a truncated "RequestError: <message>".
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "Timeout"
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return "ConnectionError"
	}
	return "RequestError: " + truncateDetail(err.Error())
}

func truncateDetail(msg string) string {
	if len(msg) > errorDetailLimit {
		return msg[:errorDetailLimit]
	}
	return msg
}
