package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrPageNotFound is returned when no page is cached for a zone and
// synopsis zone pair.
var ErrPageNotFound = errors.New("forecast page not cached")

// StoredPage is a raw forecast page as fetched from upstream.
type StoredPage struct {
	Zone         string
	SynopsisZone string
	SourceURL    string
	HTML         string
	FetchedAt    time.Time
}

// PageStore caches raw forecast pages by zone and synopsis zone, since the
// synopsis zone changes the page NOAA returns. Only markup is stored;
// reports are rebuilt from it on every read.
type PageStore struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewPageStore wraps db. A nil clock uses real time.
func NewPageStore(db *sql.DB, clock clockwork.Clock) *PageStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PageStore{db: db, clock: clock}
}

// Get returns the page cached for zone with synopsisZone ("" for none), or
// ErrPageNotFound.
func (s *PageStore) Get(ctx context.Context, zone, synopsisZone string) (*StoredPage, error) {
	var (
		p         StoredPage
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT zone, synopsis_zone, source_url, html, fetched_at
		FROM forecast_pages
		WHERE zone = ? AND synopsis_zone = ?
	`, zone, synopsisZone).Scan(&p.Zone, &p.SynopsisZone, &p.SourceURL, &p.HTML, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying page for %s: %w", zone, err)
	}
	p.FetchedAt = time.Unix(0, fetchedAt).UTC()
	return &p, nil
}

// Put stores p, replacing any page already cached for its zone and synopsis
// zone. A zero FetchedAt is set to the store's current time.
func (s *PageStore) Put(ctx context.Context, p StoredPage) error {
	if p.FetchedAt.IsZero() {
		p.FetchedAt = s.clock.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO forecast_pages (zone, synopsis_zone, source_url, html, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(zone, synopsis_zone) DO UPDATE SET
			source_url = excluded.source_url,
			html = excluded.html,
			fetched_at = excluded.fetched_at
	`, p.Zone, p.SynopsisZone, p.SourceURL, p.HTML, p.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("storing page for %s: %w", p.Zone, err)
	}
	return nil
}

// IsFresh reports whether p was fetched less than ttl ago.
func (s *PageStore) IsFresh(p StoredPage, ttl time.Duration) bool {
	return s.clock.Since(p.FetchedAt) < ttl
}
