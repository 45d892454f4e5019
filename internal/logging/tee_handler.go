package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler duplicates records to the stderr handler and the journal
// handler. The pair is fixed; this app never fans out anywhere else.
type teeHandler struct {
	console slog.Handler
	journal slog.Handler
}

func newTeeHandler(console, journal slog.Handler) *teeHandler {
	return &teeHandler{console: console, journal: journal}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.console.Enabled(ctx, level) || t.journal.Enabled(ctx, level)
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	if t.console.Enabled(ctx, r.Level) {
		errs = append(errs, t.console.Handle(ctx, r.Clone()))
	}
	if t.journal.Enabled(ctx, r.Level) {
		errs = append(errs, t.journal.Handle(ctx, r.Clone()))
	}
	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newTeeHandler(t.console.WithAttrs(attrs), t.journal.WithAttrs(attrs))
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	return newTeeHandler(t.console.WithGroup(name), t.journal.WithGroup(name))
}
