package harvest

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/webgov/harvester/internal/signals"
	"github.com/webgov/harvester/internal/wayback"
)

// ArchiveClient is the slice of the wayback client the orchestrator
// uses: the index query and the snapshot fetch.
type ArchiveClient interface {
	ListSnapshots(ctx context.Context, target string, opts wayback.QueryOptions) wayback.QueryResult
	FetchSnapshot(ctx context.Context, originalURL, timestamp string) (wayback.Snapshot, error)
}

// OrchestratorConfig bounds one domain's scrape.
type OrchestratorConfig struct {
	// MaxSnapshots caps the snapshot query; 0 means no cap.
	MaxSnapshots int
	// From and To are optional 14-digit timestamp bounds.
	From string
	To   string
	// SnapshotDelay is the politeness pause between snapshots. Not a
	// correctness requirement, but sustained runs without it get
	// rate-limited by the archive.
	SnapshotDelay time.Duration
}

// Orchestrator turns one domain into a sequence of signal records, one
// per archived snapshot, recovering from per-request failures without
// aborting the rest of the domain.
type Orchestrator struct {
	client ArchiveClient
	cfg    OrchestratorConfig
	pause  Pauser
	logger *zap.Logger
}

// NewOrchestrator builds an Orchestrator. A nil pause falls back to
// real timer sleeps.
func NewOrchestrator(client ArchiveClient, cfg OrchestratorConfig, pause Pauser, logger *zap.Logger) *Orchestrator {
	if pause == nil {
		pause = NewTimerPauser()
	}
	return &Orchestrator{
		client: client,
		cfg:    cfg,
		pause:  pause,
		logger: logger,
	}
}

// ScrapeDomain collects one record per archived robots.txt snapshot of
// domain. An unusable domain or an empty (or degraded) snapshot index
// yields an empty sequence. Cancellation returns whatever was
// accumulated; the caller decides whether partial output is kept.
func (o *Orchestrator) ScrapeDomain(ctx context.Context, domain string) []Record {
	clean := NormalizeDomain(domain)
	if clean == "" {
		return nil
	}

	res := o.client.ListSnapshots(ctx, clean+"/robots.txt", wayback.QueryOptions{
		Limit: o.cfg.MaxSnapshots,
		From:  o.cfg.From,
		To:    o.cfg.To,
	})
	if res.Degraded {
		o.logger.Warn("Snapshot query degraded to empty",
			zap.String("domain", clean), zap.Error(res.Err))
	}
	if len(res.Snapshots) == 0 {
		return nil
	}

	records := make([]Record, 0, len(res.Snapshots))
	for _, ref := range res.Snapshots {
		records = append(records, o.scrapeSnapshot(ctx, domain, clean, ref))
		if ctx.Err() != nil {
			break
		}
		o.pause.Pause(ctx, o.cfg.SnapshotDelay)
	}
	return records
}

// scrapeSnapshot builds exactly one record for ref. A transport failure
// aborts the remaining steps for this snapshot only; fields collected
// before the failure are retained.
func (o *Orchestrator) scrapeSnapshot(ctx context.Context, domain, clean string, ref wayback.SnapshotRef) Record {
	rec := Record{
		Domain:            domain,
		Timestamp:         ref.Timestamp,
		ScrapedURL:        ref.Original,
		RobotsContentType: ContentTypeUnknown,
	}

	snap, err := o.client.FetchSnapshot(ctx, ref.Original, ref.Timestamp)
	if err != nil {
		rec.ErrorDetails = wayback.ClassifyError(err)
		return rec
	}
	status := snap.StatusCode
	rec.StatusRobots = &status
	if status == http.StatusOK {
		raw := string(snap.Body)
		rec.RawRobotsResponse = raw
		if signals.LooksLikeHTML(raw) {
			rec.RobotsTxt = RobotsHTMLSentinel
			rec.RobotsContentType = ContentTypeHTML
		} else {
			rec.RobotsTxt = raw
			rec.RobotsRules = signals.ParseRobotsRules(raw)
			rec.RobotsContentType = ContentTypeRobots
		}
	} else {
		rec.RobotsContentType = HTTPErrorContentType(status)
	}
	allowed := signals.GooglebotAllowed(status, snap.Body)
	rec.GooglebotAllowed = &allowed

	home, err := o.client.FetchSnapshot(ctx, "http://"+clean, ref.Timestamp)
	if err != nil {
		rec.ErrorDetails = wayback.ClassifyError(err)
		return rec
	}
	homeStatus := home.StatusCode
	rec.StatusHome = &homeStatus
	if homeStatus == http.StatusOK {
		rec.MetaRobots = signals.ExtractMetaRobots(string(home.Body))
		rec.XRobotsTag = signals.ExtractXRobotsTag(home.Headers)
	}
	return rec
}
