package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/provider/fitzapi"
)

type EventStream interface {
	Next() (fitzapi.Event, error)
	Close() error
}

type DialFunc func(ctx context.Context) (EventStream, error)

// DialEvents adapts the API client to a DialFunc.
func DialEvents(c *fitzapi.Client) DialFunc {
	return func(ctx context.Context) (EventStream, error) {
		stream, err := c.DialEvents(ctx)
		if err != nil {
			return nil, err
		}
		return stream, nil
	}
}

type WatchConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Log             zerolog.Logger
}

// Watch reloads the store whenever the backend reports a change to the selected
// date. Dropped connections are redialed with exponential backoff until ctx ends.
// An auth failure stops the watch and is returned.
func Watch(ctx context.Context, dial DialFunc, store *Store, cfg WatchConfig) error {
	exp := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		exp.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		exp.MaxInterval = cfg.MaxInterval
	}
	exp.MaxElapsedTime = 0
	exp.Reset()

	for {
		connected, err := watchOnce(ctx, dial, store, cfg.Log)
		if ctx.Err() != nil {
			return nil
		}
		if errs.IsAuth(err) {
			return err
		}
		if connected {
			exp.Reset()
		}
		wait := exp.NextBackOff()
		cfg.Log.Warn().Err(err).Dur("retry_in", wait).Msg("event stream lost")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil
		}
	}
}

func watchOnce(ctx context.Context, dial DialFunc, store *Store, log zerolog.Logger) (bool, error) {
	stream, err := dial(ctx)
	if err != nil {
		return false, err
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = stream.Close()
		case <-done:
			_ = stream.Close()
		}
	}()
	log.Debug().Msg("event stream connected")

	for {
		ev, err := stream.Next()
		if err != nil {
			return true, fmt.Errorf("read event: %w", err)
		}
		if ev.Kind != fitzapi.EventLogChanged || ev.Date != store.SelectedDate() {
			continue
		}
		log.Debug().Str("date", ev.Date).Msg("remote change; reloading")
		if err := store.Reload(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("reload after remote change failed")
		}
	}
}
