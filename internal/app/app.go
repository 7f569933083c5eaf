package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lmt927/weather-notify/internal/analyzer"
	"github.com/lmt927/weather-notify/internal/config"
	"github.com/lmt927/weather-notify/internal/notifier"
	"github.com/lmt927/weather-notify/internal/store"
	"github.com/lmt927/weather-notify/internal/weather"
)

// Store is the persistence contract the pipeline needs.
type Store interface {
	LoadHistory() (weather.History, error)
	SaveHistory(weather.History) error
	RecordRun(status store.RunStatus, runErr error) error
}

// App wires the pipeline: fetch, analyze, persist, notify, record.
type App struct {
	cfg      *config.AppConfig
	provider weather.ForecastProvider
	store    Store
	analyzer *analyzer.Analyzer
	sender   notifier.Sender
}

func New(cfg *config.AppConfig, provider weather.ForecastProvider, st Store, an *analyzer.Analyzer, sender notifier.Sender) *App {
	return &App{
		cfg:      cfg,
		provider: provider,
		store:    st,
		analyzer: an,
		sender:   sender,
	}
}

// Run executes one batch cycle. Fetch and persistence errors abort before
// notification. A notify error after the history is durably saved keeps the
// data: the run is reported failed, but the data-layer effect stands.
// Re-running on the same day overwrites that day's record, so manual re-runs
// are idempotent.
func (a *App) Run(ctx context.Context) error {
	log.Printf("INFO: fetching tomorrow's forecast from %s", a.provider.Name())

	rec, err := a.provider.FetchTomorrow(ctx)
	if err != nil {
		return a.fail(ctx, fmt.Errorf("fetch forecast: %w", err))
	}
	log.Printf("INFO: got forecast for %s", rec.Date)

	history, err := a.store.LoadHistory()
	if err != nil {
		return a.fail(ctx, fmt.Errorf("load history: %w", err))
	}

	window := history.Window(rec.Date, a.cfg.AnalysisDays)
	log.Printf("INFO: analyzing against %d days of history", len(window))
	result := a.analyzer.Analyze(window, rec)

	// Append, prune and save form one logical transaction; the atomic save
	// means a crash anywhere before the rename leaves the old file intact.
	history.Append(rec)
	dropped := history.Prune(a.cfg.DataRetentionDays, time.Now())
	if dropped > 0 {
		log.Printf("INFO: pruned %d records older than %d days, %d kept", dropped, a.cfg.DataRetentionDays, history.Len())
	}
	if err := a.store.SaveHistory(history); err != nil {
		return a.fail(ctx, fmt.Errorf("save history: %w", err))
	}

	title := fmt.Sprintf("Tomorrow's Weather %s — %s", rec.Date, result.Category)
	body := a.analyzer.FormatReport(result)

	log.Printf("INFO: sending notification via %s", a.sender.Name())
	if err := a.sender.Send(ctx, title, body); err != nil {
		// The history write already succeeded; keep it and surface the
		// failure through the run record and exit code.
		sendErr := fmt.Errorf("send notification: %w", err)
		if recErr := a.store.RecordRun(store.RunFailure, sendErr); recErr != nil {
			log.Printf("ERROR: record run: %v", recErr)
		}
		return sendErr
	}

	if err := a.store.RecordRun(store.RunSuccess, nil); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	log.Printf("INFO: run complete, category=%s", result.Category)
	return nil
}

// fail records the failure and sends a best-effort failure notification so
// silent misses still surface on the push channel.
func (a *App) fail(ctx context.Context, runErr error) error {
	log.Printf("ERROR: %v", runErr)

	if err := a.store.RecordRun(store.RunFailure, runErr); err != nil {
		log.Printf("ERROR: record run: %v", err)
	}

	body := fmt.Sprintf("Run failed at %s\n\n```\n%v\n```", time.Now().UTC().Format(time.RFC3339), runErr)
	if err := a.sender.Send(ctx, "Weather notifier run failed", body); err != nil {
		log.Printf("ERROR: failure notification not delivered: %v", err)
	}

	return runErr
}
