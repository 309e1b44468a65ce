package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rithankoushik/fitz-cli/internal/errs"
)

// Keys stored in app_config.
const (
	ConfigAPIURL       = "api_url"
	ConfigSessionToken = "session_token"
	ConfigSessionEmail = "session_email"
)

var knownConfigKeys = map[string]bool{
	ConfigAPIURL:       true,
	ConfigSessionToken: true,
	ConfigSessionEmail: true,
}

// ConfigItem is one stored setting. Secret is set for values that should not be echoed.
type ConfigItem struct {
	Key       string
	Value     string
	Secret    bool
	UpdatedAt time.Time
}

func configKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", errs.Invalid("config key", "is required")
	}
	if !knownConfigKeys[key] {
		return "", errs.Invalid("config key", "unknown key %q", key)
	}
	return key, nil
}

func SetConfig(db *sql.DB, key, value string) error {
	key, err := configKey(key)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

// GetConfig reports ok=false when key has never been set.
func GetConfig(db *sql.DB, key string) (value string, ok bool, err error) {
	key, err = configKey(key)
	if err != nil {
		return "", false, err
	}
	err = db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func DeleteConfig(db *sql.DB, key string) error {
	key, err := configKey(key)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM app_config WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete config %q: %w", key, err)
	}
	return nil
}

// ListConfig returns every stored setting ordered by key.
func ListConfig(db *sql.DB) ([]ConfigItem, error) {
	rows, err := db.Query(`SELECT key, value, updated_at FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := make([]ConfigItem, 0, len(knownConfigKeys))
	for rows.Next() {
		var item ConfigItem
		if err := rows.Scan(&item.Key, &item.Value, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		item.Secret = item.Key == ConfigSessionToken
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}
