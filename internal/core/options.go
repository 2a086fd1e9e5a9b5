package core

// MockOption configures a mock at creation.
type MockOption func(*mockConfig)

// Option configures a When or Verify rehearsal.
type Option func(*rehearsalConfig)

// Entered restricts matching to interactions made while the mock was (or was not)
// entered as a scoped resource.
func Entered(entered bool) Option {
	return func(cfg *rehearsalConfig) {
		cfg.entered = &entered
	}
}

// IgnoreExtraArgs matches calls whose leading positional args and named keywords match,
// ignoring any extra ones.
func IgnoreExtraArgs() Option {
	return func(cfg *rehearsalConfig) {
		cfg.ignoreExtraArgs = true
	}
}

// Once makes a stub fire a single time. For Verify it means Times(1).
func Once() Option {
	return func(cfg *rehearsalConfig) {
		cfg.once = true
	}
}

// Times bounds how often a stub fires, or sets the exact count Verify requires.
func Times(n int) Option {
	return func(cfg *rehearsalConfig) {
		cfg.times = &n
	}
}

// WithAsync marks a mock as asynchronous: its results are meant to be awaited.
func WithAsync() MockOption {
	return func(cfg *mockConfig) {
		cfg.async = true
	}
}

// WithSignature declares the parameters used to bind call arguments.
func WithSignature(sig Signature) MockOption {
	return func(cfg *mockConfig) {
		cfg.signature = &sig
	}
}

type mockConfig struct {
	async     bool
	signature *Signature
}

type rehearsalConfig struct {
	ignoreExtraArgs bool
	entered         *bool
	once            bool
	times           *int
}

func newRehearsalConfig(opts []Option) rehearsalConfig {
	var cfg rehearsalConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
