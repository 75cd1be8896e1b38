package wayback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Default archive endpoints.
const (
	DefaultCDXEndpoint  = "https://web.archive.org/cdx/search/cdx"
	DefaultSnapshotBase = "https://web.archive.org/web"
)

const defaultTimeout = 30 * time.Second

// ClientConfig controls the archive client.
type ClientConfig struct {
	// CDXEndpoint is the snapshot-index query URL.
	CDXEndpoint string
	// SnapshotBase is the prefix for snapshot retrieval URLs.
	SnapshotBase string
	// UserAgent identifies the scraper to the archive.
	UserAgent string
	// Timeout applies per request.
	Timeout time.Duration
	// RequestsPerSecond caps outbound request rate across both
	// endpoints; 0 disables the cap.
	RequestsPerSecond float64
}

// Client queries the CDX index and retrieves snapshots. Both request
// kinds share one colly collector and one rate limiter so the archive
// sees a single well-behaved caller.
type Client struct {
	base         *colly.Collector
	cdxEndpoint  string
	snapshotBase string
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewClient constructs a configured archive client.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg.CDXEndpoint == "" {
		cfg.CDXEndpoint = DefaultCDXEndpoint
	}
	if cfg.SnapshotBase == "" {
		cfg.SnapshotBase = DefaultSnapshotBase
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("archive client requires a user agent")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	base := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(cfg.UserAgent),
	)
	// Snapshots of the same URL are fetched at many timestamps and the
	// archive serves real payloads behind error statuses, so both
	// revisits and non-2xx bodies must flow through.
	base.AllowURLRevisit = true
	base.ParseHTTPErrorResponse = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		base:         base,
		cdxEndpoint:  cfg.CDXEndpoint,
		snapshotBase: cfg.SnapshotBase,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       logger,
	}, nil
}

// ListSnapshots queries the CDX index for captures of target, collapsed
// to at most one per calendar day. Transport errors, non-200 statuses,
// and malformed bodies degrade to an empty, flagged result.
func (c *Client) ListSnapshots(ctx context.Context, target string, opts QueryOptions) QueryResult {
	params := url.Values{}
	params.Set("url", target)
	params.Set("output", "json")
	params.Set("fl", "timestamp,original")
	params.Set("collapse", "timestamp:8")
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.From != "" {
		params.Set("from", opts.From)
	}
	if opts.To != "" {
		params.Set("to", opts.To)
	}

	snap, err := c.get(ctx, c.cdxEndpoint+"?"+params.Encode())
	if err != nil {
		c.logger.Warn("CDX query failed", zap.String("target", target), zap.Error(err))
		return QueryResult{Degraded: true, Err: err}
	}
	if snap.StatusCode != http.StatusOK {
		err := fmt.Errorf("cdx query status %d", snap.StatusCode)
		c.logger.Warn("CDX query rejected", zap.String("target", target), zap.Error(err))
		return QueryResult{Degraded: true, Err: err}
	}

	var rows [][]string
	if err := json.Unmarshal(snap.Body, &rows); err != nil {
		c.logger.Warn("CDX response decode failed", zap.String("target", target), zap.Error(err))
		return QueryResult{Degraded: true, Err: fmt.Errorf("decode cdx response: %w", err)}
	}
	// Row zero is the field-name header.
	if len(rows) <= 1 {
		return QueryResult{}
	}
	tsIdx, origIdx := -1, -1
	for i, name := range rows[0] {
		switch name {
		case "timestamp":
			tsIdx = i
		case "original":
			origIdx = i
		}
	}
	if tsIdx < 0 || origIdx < 0 {
		return QueryResult{}
	}

	refs := make([]SnapshotRef, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if tsIdx >= len(row) || origIdx >= len(row) {
			continue
		}
		refs = append(refs, SnapshotRef{Timestamp: row[tsIdx], Original: row[origIdx]})
	}
	return QueryResult{Snapshots: refs}
}

// FetchSnapshot retrieves the unmodified historical payload of
// originalURL at timestamp. The id_ suffix asks the archive for the
// capture as served, without link rewriting. Transport failures are
// returned to the caller; non-200 statuses are values, not errors.
func (c *Client) FetchSnapshot(ctx context.Context, originalURL, timestamp string) (Snapshot, error) {
	archiveURL := fmt.Sprintf("%s/%sid_/%s", c.snapshotBase, timestamp, originalURL)
	return c.get(ctx, archiveURL)
}

type fetchResult struct {
	snap Snapshot
	err  error
}

func (c *Client) get(ctx context.Context, rawURL string) (Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("rate limiter wait: %w", err)
	}

	collector := c.base.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		headers := http.Header{}
		if r.Headers != nil {
			for k, v := range *r.Headers {
				cp := make([]string, len(v))
				copy(cp, v)
				headers[k] = cp
			}
		}
		send(fetchResult{snap: Snapshot{
			StatusCode: r.StatusCode,
			Headers:    headers,
			Body:       append([]byte{}, r.Body...),
		}})
	})
	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown transport error")
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		return Snapshot{}, err
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		return res.snap, res.err
	default:
		return Snapshot{}, errors.New("fetch produced no result")
	}
}
