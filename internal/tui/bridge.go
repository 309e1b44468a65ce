package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rithankoushik/fitz-cli/internal/tracker"
)

type searchMsg tracker.SearchState

type draftMsg tracker.Draft

type dayMsg tracker.Snapshot

type noticeMsg tracker.Notice

// Bridge queues tracker callbacks for a running program. Callbacks can fire
// from inside Update (a key press that changes the draft), where a direct
// Program.Send would block forever, so Post never blocks.
type Bridge struct {
	mu      sync.Mutex
	pending []tea.Msg
	wake    chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{wake: make(chan struct{}, 1)}
}

// Post enqueues msg for delivery.
func (b *Bridge) Post(msg tea.Msg) {
	b.mu.Lock()
	b.pending = append(b.pending, msg)
	b.mu.Unlock()
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Hook points the tracker callbacks in cfg at the bridge.
func (b *Bridge) Hook(cfg *tracker.Config) {
	cfg.OnSearch = func(st tracker.SearchState) { b.Post(searchMsg(st)) }
	cfg.OnDraft = func(d tracker.Draft) { b.Post(draftMsg(d)) }
	cfg.OnDay = func(s tracker.Snapshot) { b.Post(dayMsg(s)) }
	cfg.Notify = func(n tracker.Notice) { b.Post(noticeMsg(n)) }
}

// Run delivers queued messages in order through send until ctx ends.
func (b *Bridge) Run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
		}
		b.mu.Lock()
		batch := b.pending
		b.pending = nil
		b.mu.Unlock()
		for _, msg := range batch {
			send(msg)
		}
	}
}

// Run drives the tracking screen until the user quits. The tracker must have
// been built with b.Hook applied to its config.
func Run(ctx context.Context, t *tracker.Tracker, b *Bridge) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, t), tea.WithAltScreen())
	go b.Run(ctx, p.Send)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
