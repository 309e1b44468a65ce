package devserver

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitz",
		Subsystem: "devserver",
		Name:      "requests_total",
		Help:      "Requests served by the dev backend.",
	}, []string{"route", "status"})

	eventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitz",
		Subsystem: "devserver",
		Name:      "event_subscribers",
		Help:      "Open websocket event connections.",
	})

	eventsBroadcast = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitz",
		Subsystem: "devserver",
		Name:      "events_broadcast_total",
		Help:      "Change events fanned out to subscribers.",
	}, []string{"kind"})
)

// requestID echoes the caller's X-Request-ID or assigns a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

		ev := log.Info()
		if status >= 500 {
			ev = log.Error()
		} else if status >= 400 {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Str("request_id", c.GetString(requestIDHeader)).
			Msg("request")
	}
}
