package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/coder/websocket"
)

const reconnectDelay = 5 * time.Second

// Listener consumes the remote store's change feed over a WebSocket and
// dispatches each change to the notifier and the re-fetch hook.
type Listener struct {
	url      string
	token    string
	notifier *Notifier
	onChange func(Change)
	logger   *slog.Logger
}

// NewListener creates a Listener. onChange is called for every received
// change (self-originated included) so stores can trigger a re-fetch; the
// notifier applies its own self-suppression.
func NewListener(url, token string, notifier *Notifier, onChange func(Change), logger *slog.Logger) *Listener {
	return &Listener{
		url:      url,
		token:    token,
		notifier: notifier,
		onChange: onChange,
		logger:   logger.With("component", "listener"),
	}
}

// Run connects and reads changes until ctx is cancelled, reconnecting after
// transient failures.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.runOnce(ctx); err != nil {
			l.logger.Warn("change feed disconnected", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (l *Listener) runOnce(ctx context.Context) error {
	opts := &ws.DialOptions{}
	if l.token != "" {
		opts.HTTPHeader = map[string][]string{"Authorization": {"Bearer " + l.token}}
	}

	conn, _, err := ws.Dial(ctx, l.url, opts)
	if err != nil {
		return err
	}
	defer conn.Close(ws.StatusNormalClosure, "")

	l.logger.Info("change feed connected")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var c Change
		if err := json.Unmarshal(data, &c); err != nil {
			l.logger.Warn("bad change message", "error", err)
			continue
		}

		l.notifier.HandleChange(c)
		if l.onChange != nil {
			l.onChange(c)
		}
	}
}
