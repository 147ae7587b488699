package ingest

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/maniplus/podfeed/pkg/model"
)

// DefaultTTL is the upstream revalidation window.
const DefaultTTL = time.Hour

// Fetcher retrieves and parses the upstream podcast feed. A parsed
// result is kept for the revalidation window, so calls inside the
// window reuse it instead of re-hitting the origin. Holding the lock
// across the fetch also collapses concurrent duplicate fetches.
type Fetcher struct {
	url    string
	client *http.Client
	parser *Parser
	ttl    time.Duration

	mu        sync.Mutex
	cached    *model.Feed
	fetchedAt time.Time
}

func NewFetcher(url string, client *http.Client, parser *Parser, ttl time.Duration) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if parser == nil {
		parser = NewParser(nil)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Fetcher{
		url:    url,
		client: client,
		parser: parser,
		ttl:    ttl,
	}
}

// Fetch returns the parsed upstream feed. Transport errors and non-2xx
// responses propagate to the caller, falling back to static data is
// the caller's responsibility.
func (f *Fetcher) Fetch(ctx context.Context) (*model.Feed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil && time.Since(f.fetchedAt) < f.ttl {
		return f.cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build feed request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch feed %q", f.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("failed to fetch feed %q: status %d", f.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feed body")
	}

	feed, skipped := f.parser.Parse(string(body))
	if skipped != nil {
		log.WithError(skipped).Warn("skipped malformed feed items")
	}

	log.WithField("episodes", len(feed.Episodes)).Debugf("fetched %q", f.url)

	f.cached = feed
	f.fetchedAt = time.Now()

	return feed, nil
}

// Invalidate drops the cached feed so the next Fetch hits the origin.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cached = nil
}

// Refresh bypasses the revalidation window and re-fetches the feed,
// used by the background refresher.
func (f *Fetcher) Refresh(ctx context.Context) error {
	f.Invalidate()
	_, err := f.Fetch(ctx)
	return err
}
