package harvest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webgov/harvester/internal/wayback"
)

type nopPauser struct{}

func (nopPauser) Pause(context.Context, time.Duration) {}

// fakeArchive serves canned index and snapshot responses keyed by the
// original URL.
type fakeArchive struct {
	list      wayback.QueryResult
	snapshots map[string]wayback.Snapshot
	errs      map[string]error

	listTarget string
	listOpts   wayback.QueryOptions
}

func (f *fakeArchive) ListSnapshots(_ context.Context, target string, opts wayback.QueryOptions) wayback.QueryResult {
	f.listTarget = target
	f.listOpts = opts
	return f.list
}

func (f *fakeArchive) FetchSnapshot(_ context.Context, originalURL, _ string) (wayback.Snapshot, error) {
	if err, ok := f.errs[originalURL]; ok {
		return wayback.Snapshot{}, err
	}
	snap, ok := f.snapshots[originalURL]
	if !ok {
		return wayback.Snapshot{}, errors.New("no canned snapshot for " + originalURL)
	}
	return snap, nil
}

func newTestOrchestrator(archive *fakeArchive, cfg OrchestratorConfig) *Orchestrator {
	return NewOrchestrator(archive, cfg, nopPauser{}, zap.NewNop())
}

func TestScrapeDomainQueryShape(t *testing.T) {
	archive := &fakeArchive{}
	o := newTestOrchestrator(archive, OrchestratorConfig{
		MaxSnapshots: 30,
		From:         "20220101000000",
		To:           "20240101000000",
	})

	records := o.ScrapeDomain(context.Background(), "https://example.com/")
	assert.Empty(t, records)
	assert.Equal(t, "example.com/robots.txt", archive.listTarget)
	assert.Equal(t, 30, archive.listOpts.Limit)
	assert.Equal(t, "20220101000000", archive.listOpts.From)
	assert.Equal(t, "20240101000000", archive.listOpts.To)
}

func TestScrapeDomainUnusableInput(t *testing.T) {
	archive := &fakeArchive{}
	o := newTestOrchestrator(archive, OrchestratorConfig{})

	assert.Nil(t, o.ScrapeDomain(context.Background(), "   "))
	assert.Empty(t, archive.listTarget, "no query is issued for an unusable domain")
}

func TestScrapeDomainPlainRobots(t *testing.T) {
	robotsBody := "User-agent: *\nDisallow: /private\n"
	archive := &fakeArchive{
		list: wayback.QueryResult{Snapshots: []wayback.SnapshotRef{
			{Timestamp: "20230101000000", Original: "http://example.com/robots.txt"},
		}},
		snapshots: map[string]wayback.Snapshot{
			"http://example.com/robots.txt": {StatusCode: 200, Body: []byte(robotsBody)},
			"http://example.com": {
				StatusCode: 200,
				Headers:    map[string][]string{"X-Robots-Tag": {"NOINDEX"}},
				Body:       []byte(`<html><head><meta name="robots" content="NOFOLLOW"></head></html>`),
			},
		},
	}
	o := newTestOrchestrator(archive, OrchestratorConfig{})

	records := o.ScrapeDomain(context.Background(), "example.com")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "example.com", rec.Domain)
	assert.Equal(t, "20230101000000", rec.Timestamp)
	assert.Equal(t, "http://example.com/robots.txt", rec.ScrapedURL)
	assert.Equal(t, robotsBody, rec.RobotsTxt)
	assert.Equal(t, ContentTypeRobots, rec.RobotsContentType)
	assert.Equal(t, map[string][]string{"*": {"Disallow: /private"}}, rec.RobotsRules)
	require.NotNil(t, rec.StatusRobots)
	assert.Equal(t, 200, *rec.StatusRobots)
	require.NotNil(t, rec.StatusHome)
	assert.Equal(t, 200, *rec.StatusHome)
	assert.Equal(t, "nofollow", rec.MetaRobots)
	assert.Equal(t, "noindex", rec.XRobotsTag)
	require.NotNil(t, rec.GooglebotAllowed)
	assert.True(t, *rec.GooglebotAllowed)
	assert.Empty(t, rec.ErrorDetails)
}

func TestScrapeDomainHTMLPayload(t *testing.T) {
	archive := &fakeArchive{
		list: wayback.QueryResult{Snapshots: []wayback.SnapshotRef{
			{Timestamp: "20230101000000", Original: "http://example.com/robots.txt"},
		}},
		snapshots: map[string]wayback.Snapshot{
			"http://example.com/robots.txt": {
				StatusCode: 200,
				Body:       []byte("<html><body>Not found</body></html>"),
			},
			"http://example.com": {StatusCode: 404},
		},
	}
	o := newTestOrchestrator(archive, OrchestratorConfig{})

	records := o.ScrapeDomain(context.Background(), "example.com")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, RobotsHTMLSentinel, rec.RobotsTxt)
	assert.Equal(t, ContentTypeHTML, rec.RobotsContentType)
	assert.Equal(t, "<html><body>Not found</body></html>", rec.RawRobotsResponse)
	assert.Nil(t, rec.RobotsRules)
	assert.Empty(t, rec.MetaRobots, "non-200 homepage yields no meta signal")
	require.NotNil(t, rec.StatusHome)
	assert.Equal(t, 404, *rec.StatusHome)
}

func TestScrapeDomainHTTPError(t *testing.T) {
	archive := &fakeArchive{
		list: wayback.QueryResult{Snapshots: []wayback.SnapshotRef{
			{Timestamp: "20230101000000", Original: "http://example.com/robots.txt"},
		}},
		snapshots: map[string]wayback.Snapshot{
			"http://example.com/robots.txt": {StatusCode: 404},
			"http://example.com":            {StatusCode: 200},
		},
	}
	o := newTestOrchestrator(archive, OrchestratorConfig{})

	records := o.ScrapeDomain(context.Background(), "example.com")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "HTTP_Error_404", rec.RobotsContentType)
	assert.Empty(t, rec.RobotsTxt)
	require.NotNil(t, rec.GooglebotAllowed)
	assert.True(t, *rec.GooglebotAllowed, "a missing robots.txt allows crawling")
}

func TestScrapeDomainDisallowedGooglebot(t *testing.T) {
	archive := &fakeArchive{
		list: wayback.QueryResult{Snapshots: []wayback.SnapshotRef{
			{Timestamp: "20230101000000", Original: "http://example.com/robots.txt"},
		}},
		snapshots: map[string]wayback.Snapshot{
			"http://example.com/robots.txt": {
				StatusCode: 200,
				Body:       []byte("User-agent: Googlebot\nDisallow: /\n"),
			},
			"http://example.com": {StatusCode: 200},
		},
	}
	o := newTestOrchestrator(archive, OrchestratorConfig{})

	records := o.ScrapeDomain(context.Background(), "example.com")
	require.Len(t, records, 1)
	require.NotNil(t, records[0].GooglebotAllowed)
	assert.False(t, *records[0].GooglebotAllowed)
}

func TestScrapeDomainRobotsFetchFailure(t *testing.T) {
	archive := &fakeArchive{
		list: wayback.QueryResult{Snapshots: []wayback.SnapshotRef{
			{Timestamp: "20230101000000", Original: "http://example.com/robots.txt"},
		}},
		errs: map[string]error{
			"http://example.com/robots.txt": context.DeadlineExceeded,
		},
	}
	o := newTestOrchestrator(archive, OrchestratorConfig{})

	records := o.ScrapeDomain(context.Background(), "example.com")
	require.Len(t, records, 1, "a failed snapshot still produces a record")

	rec := records[0]
	assert.Equal(t, "Timeout", rec.ErrorDetails)
	assert.Equal(t, ContentTypeUnknown, rec.RobotsContentType)
	assert.Nil(t, rec.StatusRobots)
	assert.Nil(t, rec.StatusHome)
}

func TestScrapeDomainHomepageFetchFailure(t *testing.T) {
	archive := &fakeArchive{
		list: wayback.QueryResult{Snapshots: []wayback.SnapshotRef{
			{Timestamp: "20230101000000", Original: "http://example.com/robots.txt"},
		}},
		snapshots: map[string]wayback.Snapshot{
			"http://example.com/robots.txt": {StatusCode: 200, Body: []byte("User-agent: *\nAllow: /\n")},
		},
		errs: map[string]error{
			"http://example.com": context.DeadlineExceeded,
		},
	}
	o := newTestOrchestrator(archive, OrchestratorConfig{})

	records := o.ScrapeDomain(context.Background(), "example.com")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Timeout", rec.ErrorDetails)
	assert.Equal(t, ContentTypeRobots, rec.RobotsContentType, "robots fields collected before the failure are kept")
	require.NotNil(t, rec.StatusRobots)
	assert.Nil(t, rec.StatusHome)
}

func TestScrapeDomainDegradedIndex(t *testing.T) {
	archive := &fakeArchive{
		list: wayback.QueryResult{Degraded: true, Err: errors.New("cdx unavailable")},
	}
	o := newTestOrchestrator(archive, OrchestratorConfig{})

	assert.Empty(t, o.ScrapeDomain(context.Background(), "example.com"))
}
