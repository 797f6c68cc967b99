package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	themeSetting = "theme"
)

// SettingsRepository persists process-wide preferences. Currently only
// the theme; an unset theme reads as light.
type SettingsRepository interface {
	Theme(ctx context.Context) (string, error)
	SaveTheme(ctx context.Context, theme string) error
}

type sqliteSettings struct {
	conn *sql.DB
}

func NewSQLiteSettingsRepository(conn *sql.DB) SettingsRepository {
	return &sqliteSettings{conn: conn}
}

func (that *sqliteSettings) Theme(ctx context.Context) (string, error) {
	var theme string

	row := that.conn.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE name = ?`, themeSetting)

	err := row.Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return ThemeLight, nil
	}

	if err != nil {
		return ThemeLight, fmt.Errorf("could not read theme: %w", err)
	}

	return theme, nil
}

func (that *sqliteSettings) SaveTheme(ctx context.Context, theme string) error {
	_, err := that.conn.ExecContext(ctx,
		`INSERT INTO settings (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		themeSetting, theme)
	if err != nil {
		return fmt.Errorf("could not save theme: %w", err)
	}

	return nil
}

type redisSettings struct {
	client *redis.Client
}

func NewRedisSettingsRepository(client *redis.Client) SettingsRepository {
	return &redisSettings{client: client}
}

func (that *redisSettings) Theme(ctx context.Context) (string, error) {
	theme, err := that.client.Get(ctx, "settings:"+themeSetting).Result()

	if errors.Is(err, redis.Nil) {
		return ThemeLight, nil
	}

	if err != nil {
		return ThemeLight, fmt.Errorf("could not read theme: %w", err)
	}

	return theme, nil
}

func (that *redisSettings) SaveTheme(ctx context.Context, theme string) error {
	if err := that.client.Set(ctx, "settings:"+themeSetting, theme, 0).Err(); err != nil {
		return fmt.Errorf("could not save theme: %w", err)
	}

	return nil
}
