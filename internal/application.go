package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gridgames-client/internal/config"
	"github.com/rocketscienceinc/gridgames-client/internal/repository"
	"github.com/rocketscienceinc/gridgames-client/internal/repository/storage"
	"github.com/rocketscienceinc/gridgames-client/transport/terminal"
)

// RunApp - wires persistence, the game-server client stack and the
// terminal front end, then runs the interactive loop until the input
// ends or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	tallies, settings, closeStorage, err := buildStorage(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	ui := terminal.New(logger, os.Stdin, os.Stdout, terminal.Options{
		BaseURL:     conf.Server.BaseURL,
		HTTPClient:  &http.Client{Timeout: conf.Server.Timeout()},
		Tallies:     tallies,
		Settings:    settings,
		AIDelay:     conf.Pacing.AIDelay(),
		RevealDelay: conf.Pacing.RevealDelay(),
	})

	if err = ui.Run(ctx); err != nil {
		return fmt.Errorf("terminal loop failed: %w", err)
	}

	return nil
}

func buildStorage(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.TallyRepository, repository.SettingsRepository, func(), error) {
	log := logger.With("component", "app")

	if conf.Storage.Backend == "redis" {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closer := func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				log.Error("could not close redis storage", "error", closeErr)
			}
		}

		return repository.NewRedisTallyRepository(redisStorage.Connection),
			repository.NewRedisSettingsRepository(redisStorage.Connection),
			closer, nil
	}

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
	}

	if err = sqliteStorage.Init(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
	}

	closer := func() {
		if closeErr := sqliteStorage.Close(); closeErr != nil {
			log.Error("could not close sqlite storage", "error", closeErr)
		}
	}

	return repository.NewSQLiteTallyRepository(sqliteStorage.Connection),
		repository.NewSQLiteSettingsRepository(sqliteStorage.Connection),
		closer, nil
}
