package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/maniplus/podfeed/pkg/feed"
)

// validateFeeds checks the syndication endpoints of a running
// instance: XML feeds must re-parse with a real feed parser and carry
// consistent entries, the JSON feed must be a JSON Feed 1.1 document.
func validateFeeds(ctx context.Context, baseURL string) error {
	baseURL = strings.TrimSuffix(baseURL, "/")
	client := &http.Client{Timeout: 30 * time.Second}

	var result *multierror.Error

	for _, path := range []string{"/feed.xml", "/atom.xml"} {
		if err := validateXMLFeed(ctx, client, baseURL+path); err != nil {
			result = multierror.Append(result, errors.Wrap(err, path))
			continue
		}
		log.Infof("%s: ok", path)
	}

	if err := validateJSONFeed(ctx, client, baseURL+"/feed.json"); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "/feed.json"))
	} else {
		log.Info("/feed.json: ok")
	}

	return result.ErrorOrNil()
}

func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func validateXMLFeed(ctx context.Context, client *http.Client, url string) error {
	body, err := fetchBody(ctx, client, url)
	if err != nil {
		return err
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return errors.Wrap(err, "feed does not parse")
	}

	if parsed.Title == "" {
		return errors.New("feed has no title")
	}

	if len(parsed.Items) == 0 {
		return errors.New("feed has no entries")
	}

	for i, item := range parsed.Items {
		if item.Title == "" {
			return errors.Errorf("entry %d has no title", i)
		}
		if item.Link == "" {
			return errors.Errorf("entry %d has no link", i)
		}
	}

	return nil
}

func validateJSONFeed(ctx context.Context, client *http.Client, url string) error {
	body, err := fetchBody(ctx, client, url)
	if err != nil {
		return err
	}

	var doc feed.JSONFeed
	if err := json.Unmarshal(body, &doc); err != nil {
		return errors.Wrap(err, "feed does not parse")
	}

	if doc.Version != feed.JSONFeedVersion {
		return errors.Errorf("unexpected version %q", doc.Version)
	}

	if len(doc.Items) == 0 {
		return errors.New("feed has no items")
	}

	for i, item := range doc.Items {
		if item.ID == "" {
			return errors.Errorf("item %d has no id", i)
		}
	}

	return nil
}
