package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/maniplus/podfeed/pkg/config"
	"github.com/maniplus/podfeed/pkg/feed"
	"github.com/maniplus/podfeed/pkg/ingest"
)

type Opts struct {
	ConfigPath string `long:"config" short:"c" default:"config.toml" env:"PODFEED_CONFIG_PATH"`
	Debug      bool   `long:"debug"`
	NoBanner   bool   `long:"no-banner"`
	// Validate checks the syndication endpoints of a running instance
	// instead of serving
	Validate string `long:"validate" value-name:"BASE_URL"`
}

const banner = `
                 _  __               _
 _ __   ___   __| |/ _| ___  ___  __| |
| '_ \ / _ \ / _' | |_ / _ \/ _ \/ _' |
| |_) | (_) | (_| |  _|  __/  __/ (_| |
| .__/ \___/ \__,_|_|  \___|\___|\__,_|
|_|
`

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	// Parse args
	opts := Opts{}
	if _, err := flags.Parse(&opts); err != nil {
		log.WithError(err).Fatal("failed to parse command line arguments")
	}

	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if opts.Validate != "" {
		if err := validateFeeds(ctx, opts.Validate); err != nil {
			log.WithError(err).Fatal("feed validation failed")
		}
		log.Info("all feeds are valid")
		return
	}

	if !opts.NoBanner {
		log.Info(banner)
	}

	log.WithFields(log.Fields{
		"version": version,
		"commit":  commit,
		"date":    date,
	}).Info("running podfeed")

	// Load TOML file
	log.Debugf("loading configuration %q", opts.ConfigPath)
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			log.WithError(err).Fatal("failed to load configuration file")
		}
		log.Warnf("no configuration at %q, using built-in defaults", opts.ConfigPath)
		cfg = config.Default()
	}

	client := &http.Client{Timeout: cfg.Upstream.Timeout.Duration}
	parser := ingest.NewParser(ingest.NewVocabTagger(cfg.Tagger.Vocabulary))
	fetcher := ingest.NewFetcher(cfg.Upstream.URL, client, parser, cfg.Upstream.RefreshPeriod.Duration)
	generator := feed.NewGenerator(&cfg.Site, nil)

	// Warm the cache ahead of the first request
	if err := fetcher.Refresh(ctx); err != nil {
		log.WithError(err).Warn("initial upstream fetch failed, endpoints will serve fallback data")
	}

	// Keep the cache fresh on the revalidation window
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(nil)))
	if _, err := c.AddFunc("@every "+cfg.Upstream.RefreshPeriod.String(), func() {
		log.Debugf("refreshing upstream feed %q", cfg.Upstream.URL)
		if err := fetcher.Refresh(ctx); err != nil {
			log.WithError(err).Error("failed to refresh upstream feed")
		}
	}); err != nil {
		log.WithError(err).Fatal("failed to schedule feed refresh")
	}

	group.Go(func() error {
		defer func() {
			log.Info("shutting down cron")
			c.Stop()
		}()

		c.Start()

		<-ctx.Done()
		return ctx.Err()
	})

	// Run web server
	srv := NewServer(cfg, fetcher, generator)

	group.Go(func() error {
		log.Infof("running listener at %s", srv.Addr)
		return srv.ListenAndServe()
	})

	group.Go(func() error {
		// Shutdown web server
		defer func() {
			log.Info("shutting down web server")
			if err := srv.Shutdown(context.Background()); err != nil {
				log.WithError(err).Error("server shutdown failed")
			}
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			cancel()
			return nil
		}
	})

	if err := group.Wait(); err != nil && (err != context.Canceled && err != http.ErrServerClosed) {
		log.WithError(err).Error("wait error")
	}

	log.Info("gracefully stopped")
}
