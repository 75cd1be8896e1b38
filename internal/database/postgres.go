package database

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webgov/harvester/internal/harvest"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the Postgres connection pool used for the
// record mirror.
type PostgresConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresProvider writes harvest records into a Postgres table whose
// columns mirror the robots-scrape schema.
type PostgresProvider struct {
	pool  execCloser
	table string
}

// NewPostgresProvider creates a Postgres-backed Provider using the
// provided config.
func NewPostgresProvider(ctx context.Context, cfg PostgresConfig) (*PostgresProvider, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "robots_scrape"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresProvider{pool: pool, table: table}, nil
}

// NewPostgresProviderWithPool constructs a provider from an existing
// pool (primarily for testing).
func NewPostgresProviderWithPool(pool execCloser, table string) (*PostgresProvider, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "robots_scrape"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresProvider{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (p *PostgresProvider) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}

// SaveRecords inserts one row per record. The first failed insert
// aborts the batch; rows already inserted stay, since the CSV dataset
// is the source of truth and the mirror tolerates gaps.
func (p *PostgresProvider) SaveRecords(ctx context.Context, records []harvest.Record) error {
	if p == nil || p.pool == nil {
		return fmt.Errorf("postgres provider is not configured")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	domain,
	timestamp,
	scraped_url,
	robots_txt,
	raw_robots_response_text,
	robots_content_type,
	robots_rules,
	meta_robots,
	x_robots_tag,
	status_robots,
	status_home,
	error_details,
	datetime,
	googlebot_allowed
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`, p.table)

	for _, rec := range records {
		rulesJSON, err := marshalRules(rec.RobotsRules)
		if err != nil {
			return fmt.Errorf("marshal robots rules for %s@%s: %w", rec.Domain, rec.Timestamp, err)
		}
		if _, err := p.pool.Exec(ctx, query,
			rec.Domain,
			rec.Timestamp,
			rec.ScrapedURL,
			rec.RobotsTxt,
			rec.RawRobotsResponse,
			rec.RobotsContentType,
			rulesJSON,
			rec.MetaRobots,
			rec.XRobotsTag,
			rec.StatusRobots,
			rec.StatusHome,
			rec.ErrorDetails,
			nullableDatetime(rec.Timestamp),
			rec.GooglebotAllowed,
		); err != nil {
			return fmt.Errorf("insert record %s@%s: %w", rec.Domain, rec.Timestamp, err)
		}
	}
	return nil
}

// marshalRules serializes the rules map for the JSONB column; an empty
// map stores as NULL.
func marshalRules(rules map[string][]string) ([]byte, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	return json.Marshal(rules)
}

// nullableDatetime derives the row's datetime from the capture stamp;
// an unparseable stamp stores as NULL.
func nullableDatetime(timestamp string) *time.Time {
	ts, err := time.Parse("20060102150405", timestamp)
	if err != nil {
		return nil
	}
	return &ts
}
