package health

import (
	"context"
	"encoding/json"
	"github.com/clambin/aws4home/internal/notifier"
	"log/slog"
	"net/http"
	"sync"
)

// Subscriber receives the result of every notifier invocation.
type Subscriber interface {
	Subscribe() <-chan notifier.Result
	Unsubscribe(<-chan notifier.Result)
}

// Health reports the last result of each notifier.
type Health struct {
	Subscriber
	logger  *slog.Logger
	results map[string]notifier.Result
	lock    sync.RWMutex
}

func New(s Subscriber, logger *slog.Logger) *Health {
	return &Health{
		Subscriber: s,
		logger:     logger,
		results:    make(map[string]notifier.Result),
	}
}

func (h *Health) Run(ctx context.Context) error {
	h.logger.Debug("started")
	defer h.logger.Debug("stopped")

	ch := h.Subscriber.Subscribe()
	defer h.Subscriber.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case result := <-ch:
			h.lock.Lock()
			h.results[result.Notifier] = result
			h.lock.Unlock()
		}
	}
}

// ServeHTTP returns the last result of each notifier. It returns 503 if no notifier has run yet,
// or if the last invocation of any notifier failed.
func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	if len(h.results) == 0 {
		http.Error(w, "no invocation yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	status := http.StatusOK
	for _, result := range h.results {
		if result.Outcome == notifier.OutcomeFailed {
			status = http.StatusServiceUnavailable
		}
	}
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(h.results); err != nil {
		h.logger.Error("failed to encode results", "err", err)
	}
}
