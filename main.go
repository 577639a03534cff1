package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/Brawl345/desklist/logger"
	"github.com/Brawl345/desklist/model/sql"
	"github.com/Brawl345/desklist/notify"
	"github.com/Brawl345/desklist/scheduler"
	_ "github.com/joho/godotenv/autoload"
)

var log = logger.New("main")

func readVersionInfo() {
	var (
		Revision   = "unknown"
		LastCommit time.Time
	)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			Revision = kv.Value
		case "vcs.time":
			LastCommit, _ = time.Parse(time.RFC3339, kv.Value)
		}
	}
	log.Info().Msgf("Desklist-%s, %v", Revision, LastCommit)
}

func main() {
	readVersionInfo()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	db, err := sql.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Send()
	}

	log.Info().Str("dialect", db.Dialect()).Msg("Database connection established")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := notify.New(cfg.AppName)
	defer notifier.Close()

	// The scheduler may tick before the schema is in place; the store reports
	// not ready until then and those ticks are no-ops.
	reminders := scheduler.New(
		sql.NewReminderService(db),
		notifier,
		scheduler.WithInterval(cfg.Interval),
		scheduler.WithLocation(cfg.Location),
		scheduler.WithSound(cfg.Sound),
	)
	reminders.Start(ctx)

	if cfg.IgnoreMigration {
		db.MarkReady()
	} else {
		n, err := db.Migrate()
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		if n > 0 {
			log.Info().Msgf("Applied %d migration(s)", n)
		}
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down")
}
