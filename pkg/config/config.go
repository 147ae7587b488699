package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Site describes the podcast and the website publishing it. Fields are
// copied verbatim into feed-level metadata.
type Site struct {
	Name        string `toml:"name"`
	URL         string `toml:"url"`
	Description string `toml:"description"`
	Author      string `toml:"author"`
	OwnerName   string `toml:"owner_name"`
	OwnerEmail  string `toml:"owner_email"`
	// CoverArt is an absolute URL to the 1400x1400 podcast artwork
	CoverArt string `toml:"cover_art"`
	// Language is an RSS language code, e.g. "en-us"
	Language  string `toml:"lang"`
	Copyright string `toml:"copyright"`
	// Category and Subcategory are iTunes directory categories
	Category    string `toml:"category"`
	Subcategory string `toml:"subcategory"`
	Explicit    bool   `toml:"explicit"`
	// Type is either "episodic" or "serial"
	Type string `toml:"type"`
	// Keywords populate the channel-level itunes:keywords tag
	Keywords []string `toml:"keywords"`
}

// Upstream points at the feed the episodes are ingested from.
type Upstream struct {
	// URL of the hosted RSS 2.0 feed
	URL string `toml:"url"`
	// RefreshPeriod is the revalidation window for the upstream feed.
	// Format is "300ms", "1.5h" or "2h45m".
	RefreshPeriod Duration `toml:"refresh_period"`
	// Timeout for the upstream request, zero means no explicit timeout
	Timeout Duration `toml:"timeout"`
}

// Server is the web server configuration.
type Server struct {
	// Port is a server port to listen to
	Port int `toml:"port"`
	// Bind a specific IP addresses for server
	// "*": bind all IP addresses which is default option
	BindAddress string `toml:"bind_address"`
	// WebhookSecret guards the publish webhook, empty disables it
	WebhookSecret string `toml:"webhook_secret"`
}

// Tagger optionally overrides the topic extraction vocabulary.
type Tagger struct {
	Vocabulary []string `toml:"vocabulary"`
}

type Config struct {
	Site     Site     `toml:"site"`
	Upstream Upstream `toml:"upstream"`
	Server   Server   `toml:"server"`
	Tagger   Tagger   `toml:"tagger"`
}

// LoadConfig loads TOML configuration from a file path
func LoadConfig(path string) (*Config, error) {
	config := Config{}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, errors.Wrap(err, "failed to load config file")
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the built-in configuration for the Beating Edge site.
func Default() *Config {
	config := Config{}
	config.applyDefaults()
	return &config
}

func (c *Config) validate() error {
	var result *multierror.Error

	if c.Site.URL == "" {
		result = multierror.Append(result, errors.New("site URL is required"))
	}

	if c.Upstream.URL == "" {
		result = multierror.Append(result, errors.New("upstream feed URL is required"))
	}

	if c.Site.Type != "episodic" && c.Site.Type != "serial" {
		result = multierror.Append(result, errors.Errorf("invalid podcast type %q", c.Site.Type))
	}

	return result.ErrorOrNil()
}

func (c *Config) applyDefaults() {
	if c.Site.Name == "" {
		c.Site.Name = "The Beating Edge with Mani+"
	}

	if c.Site.URL == "" {
		c.Site.URL = "https://mani.plus"
	}

	if c.Site.Description == "" {
		c.Site.Description = "A podcast at the intersection of resilience, medicine, innovation, " +
			"and the human spirit in healthcare. Raw, honest conversations with patients, " +
			"clinicians, and researchers about heart transplant, dialysis, and breakthroughs " +
			"that change lives."
	}

	if c.Site.Author == "" {
		c.Site.Author = "Mani+"
	}

	if c.Site.OwnerName == "" {
		c.Site.OwnerName = c.Site.Author
	}

	if c.Site.OwnerEmail == "" {
		c.Site.OwnerEmail = "hello@thebeatingedge.com"
	}

	if c.Site.CoverArt == "" {
		c.Site.CoverArt = c.Site.URL + "/mani+logo.png"
	}

	if c.Site.Language == "" {
		c.Site.Language = "en-us"
	}

	if c.Site.Copyright == "" {
		c.Site.Copyright = fmt.Sprintf("© %d %s. All rights reserved.", time.Now().Year(), c.Site.Name)
	}

	if c.Site.Category == "" {
		c.Site.Category = "Health & Fitness"
	}

	if c.Site.Subcategory == "" {
		c.Site.Subcategory = "Medicine"
	}

	if c.Site.Type == "" {
		c.Site.Type = "episodic"
	}

	if len(c.Site.Keywords) == 0 {
		c.Site.Keywords = []string{
			"resilience", "medicine", "innovation", "human spirit", "healthcare",
			"heart transplant", "dialysis", "patient stories", "medical podcast",
		}
	}

	if c.Upstream.URL == "" {
		c.Upstream.URL = "https://anchor.fm/s/108b17084/podcast/rss"
	}

	if c.Upstream.RefreshPeriod.Duration == 0 {
		c.Upstream.RefreshPeriod.Duration = time.Hour
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}
