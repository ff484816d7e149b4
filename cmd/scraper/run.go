package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/auth"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/config"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/crawler"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/database"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/orchestrator"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/ratelimit"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/secrets"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/storage"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/utils"
)

const logFileName = "linkedin_scraper.log"

func runScrape(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := setupLogging(cfg.OutputDir); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	// One session per run: refuse to start beside another instance.
	lock := flock.New(filepath.Join(cfg.OutputDir, "scraper.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another scraper run holds %s", lock.Path())
	}
	defer lock.Unlock()

	creds, err := secrets.Resolve(cfg)
	if err != nil {
		return err
	}

	store, err := database.OpenStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID := uuid.New().String()
	log.Printf("run %s: %d queries, max_pages=%d, headless=%v, delay=[%g, %g]s",
		runID, len(cfg.Searches), cfg.MaxPages, cfg.Headless, cfg.DelayMin, cfg.DelayMax)

	// An interrupt cancels the context; the sink flushes per record, so
	// everything already collected survives the unwind.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = crawl(ctx, cfg, creds, store, runID)
	if ctx.Err() != nil {
		log.Printf("run %s: interrupted, partial output kept", runID)
	}
	return err
}

// crawl owns the browser session from authentication to the last page.
func crawl(ctx context.Context, cfg config.Config, creds models.Credentials, store *database.Store, runID string) error {
	start := time.Now()

	browserCtx, cancelBrowser, err := auth.NewBrowserContext(ctx, cfg.Headless)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer cancelBrowser()

	state, err := auth.NewManager().Authenticate(browserCtx, creds, cfg.Headless)
	if err != nil {
		return err
	}
	log.Printf("run %s: session %s", runID, state)

	// The output file exists only after authentication succeeds.
	sink, err := storage.OpenCSVSink(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := store.Runs.StartRun(runID, len(cfg.Searches), sink.Path()); err != nil {
		log.Printf("history store: start run failed: %v", err)
	}

	history := newHistoryWriter(store, runID)

	limiter := ratelimit.New(cfg.DelayMin, cfg.DelayMax)
	pager := crawler.NewSearchService(cfg.DebugMode)
	extractor := crawler.NewExtractor()
	if cfg.DebugMode {
		extractor.Debug = log.Printf
	}

	orch := orchestrator.New(cfg, pager, extractor, limiter, sink, history)
	runErr := orch.Run(browserCtx)

	history.Close()

	status := "completed"
	if runErr != nil {
		status = "failed"
	}
	if err := store.Runs.FinishRun(runID, orch.Written(), status); err != nil {
		log.Printf("history store: finish run failed: %v", err)
	}

	if closeErr := sink.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}

	log.Printf("run %s: %s in %s, %d profiles -> %s",
		runID, status, utils.FormatDuration(time.Since(start)), orch.Written(), sink.Path())
	return runErr
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, &config.ConfigError{Problems: []string{err.Error()}}
	}

	// CLI flags overlay the file values when set.
	if cmd.Flags().Changed("headless") {
		cfg.Headless, _ = cmd.Flags().GetBool("headless")
	}
	if cmd.Flags().Changed("max-pages") {
		cfg.MaxPages, _ = cmd.Flags().GetInt("max-pages")
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.OutputDir, _ = cmd.Flags().GetString("out-dir")
	}

	return config.ValidateAndNormalize(cfg)
}

// setupLogging mirrors every log line into a run log file next to the CSVs.
func setupLogging(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	log.SetFlags(log.LstdFlags)
	return nil
}
