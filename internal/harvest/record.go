// Package harvest implements the domain scrape orchestrator and the
// checkpointed batch runner.
package harvest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/webgov/harvester/internal/schema"
)

// RobotsHTMLSentinel replaces robots_txt when a 200 response carried an
// HTML page instead of directive text.
const RobotsHTMLSentinel = "HTML Content (Not robots.txt)"

// robots_content_type values.
const (
	ContentTypeRobots  = "robots.txt"
	ContentTypeHTML    = "HTML_page"
	ContentTypeUnknown = "unknown"
)

// HTTPErrorContentType labels a non-200 robots.txt response.
func HTTPErrorContentType(status int) string {
	return fmt.Sprintf("HTTP_Error_%d", status)
}

// Record is one governance-signal observation: one archived snapshot of
// one domain's robots.txt plus its homepage at the same timestamp.
// Pointer fields are nil when the request never produced a response;
// string fields use "" for absence. A record is created once by the
// orchestrator and never mutated afterwards.
type Record struct {
	Domain            string
	Timestamp         string
	ScrapedURL        string
	RobotsTxt         string
	RawRobotsResponse string
	RobotsContentType string
	RobotsRules       map[string][]string
	MetaRobots        string
	XRobotsTag        string
	StatusRobots      *int
	StatusHome        *int
	ErrorDetails      string
	GooglebotAllowed  *bool
}

// CSVHeader returns the output dataset header, which is the
// robots-scrape schema contract.
func CSVHeader() []string {
	return schema.RobotsScrape.Header()
}

// CSVRow serializes the record in header order. Rules are serialized as
// JSON ("" when empty, matching the absent-value convention); the
// datetime column is derived from the 14-digit timestamp and left empty
// when the stamp does not parse.
func (r Record) CSVRow() []string {
	return []string{
		r.Domain,
		r.Timestamp,
		r.ScrapedURL,
		r.RobotsTxt,
		r.RawRobotsResponse,
		r.RobotsContentType,
		marshalRules(r.RobotsRules),
		r.MetaRobots,
		r.XRobotsTag,
		formatStatus(r.StatusRobots),
		formatStatus(r.StatusHome),
		r.ErrorDetails,
		DeriveDatetime(r.Timestamp),
		formatBool(r.GooglebotAllowed),
	}
}

// DeriveDatetime converts a 14-digit capture stamp to a human-readable
// datetime. Unparseable stamps yield "" rather than an error.
func DeriveDatetime(timestamp string) string {
	ts, err := time.Parse("20060102150405", timestamp)
	if err != nil {
		return ""
	}
	return ts.Format("2006-01-02 15:04:05")
}

func marshalRules(rules map[string][]string) string {
	if len(rules) == 0 {
		return ""
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return ""
	}
	return string(data)
}

func formatStatus(status *int) string {
	if status == nil {
		return ""
	}
	return strconv.Itoa(*status)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
