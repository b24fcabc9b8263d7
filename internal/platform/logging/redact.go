package logging

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// Three base64url segments, the first two starting with an encoded "{".
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	// Authorization header values.
	authSchemePattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)

	// URLs carrying user:password, as a misconfigured remote base_url might.
	userinfoURLPattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://[^/@\s]+:[^/@\s]+@`)
)

// DefaultRedactOptions returns the masq options applied to every log sink.
//
// Quotes themselves are not secret, but request headers, remote client
// settings and storage paths may be logged alongside them.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, 16)

	for _, name := range []string{
		"password", "secret", "token", "apiKey", "api_key",
		"accessToken", "access_token", "authorization", "cookie", "credentials",
	} {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(authSchemePattern),
		masq.WithRegex(userinfoURLPattern),
	)
}

// NewReplaceAttr returns a slog ReplaceAttr that redacts with
// DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}

// redactingHandler applies a ReplaceAttr function to handlers that do not
// support slog.HandlerOptions, such as the charm terminal handler.
type redactingHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func newRedactingHandler(next slog.Handler, replace func([]string, slog.Attr) slog.Attr) slog.Handler {
	return &redactingHandler{next: next, replace: replace}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))

		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replace(h.groups, a)
	}

	return &redactingHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string(nil), h.groups...), name)

	return &redactingHandler{next: h.next.WithGroup(name), replace: h.replace, groups: groups}
}
