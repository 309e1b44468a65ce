package fitzapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rithankoushik/fitz-cli/internal/errs"
)

// EventLogChanged is pushed after any entry is added to or removed from a day.
const EventLogChanged = "log.changed"

type Event struct {
	Kind string `json:"kind"`
	Date string `json:"date"`
}

// EventStream is a live feed of backend change notifications.
type EventStream struct {
	conn *websocket.Conn
}

// Next blocks until the next event arrives or the connection fails.
func (s *EventStream) Next() (Event, error) {
	var ev Event
	if err := s.conn.ReadJSON(&ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (s *EventStream) Close() error {
	return s.conn.Close()
}

// DialEvents opens the websocket feed at {base}/food/events.
func (c *Client) DialEvents(ctx context.Context) (*EventStream, error) {
	const op = "dial events"
	u, err := url.Parse(c.baseURL + "/food/events")
	if err != nil {
		return nil, fmt.Errorf("parse events url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	header.Set(requestIDHeader, uuid.NewString())
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			if errors.Is(err, errs.ErrUnauthorized) {
				c.unauthorized(op)
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	timeout := c.http.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := websocket.Dialer{Proxy: http.ProxyFromEnvironment, HandshakeTimeout: timeout}
	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			apiErr := errs.NewHTTPError(op, resp.StatusCode, "")
			if apiErr.Category() == errs.Auth {
				c.unauthorized(op)
			}
			return nil, apiErr
		}
		return nil, errs.NewNetworkError(op, err)
	}
	return &EventStream{conn: conn}, nil
}
