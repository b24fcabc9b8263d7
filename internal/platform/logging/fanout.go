package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler mirrors every record to each sink, typically the console
// and the rolling log file. A failing sink does not stop the others.
type fanoutHandler struct {
	sinks []slog.Handler
}

func newFanoutHandler(sinks ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{sinks: sinks}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle returns every sink error joined.
func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error

	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}

		err := s.Handle(ctx, r.Clone())
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *fanoutHandler) each(fn func(slog.Handler) slog.Handler) *fanoutHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = fn(s)
	}

	return newFanoutHandler(sinks...)
}
