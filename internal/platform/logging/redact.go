package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// credentialURLPattern matches URLs with user:password@ userinfo, as an
	// OTLP endpoint or a proxied feed base URL may carry.
	credentialURLPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^/@\s:]+:[^/@\s]+@`)

	// authSchemePattern matches Authorization-style header values.
	authSchemePattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)
)

// DefaultRedactOptions returns the masq options applied to every handler.
// Forwarded request headers and telemetry settings are the only places
// credentials can reach the logs.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("token"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("cookie"),
		masq.WithFieldName("Cookie"),
		masq.WithFieldName("headers"),
		masq.WithFieldPrefix("secret"),

		masq.WithRegex(credentialURLPattern),
		masq.WithRegex(authSchemePattern),
	}
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions that
// redacts DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}
