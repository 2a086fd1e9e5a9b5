package rehearse

import (
	"log/slog"

	"github.com/toejough/rehearse/internal/core"
)

// For returns the Container for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Container.
// This lets mocks created in helpers share one event log with the test.
func For(t TestReporter, opts ...ContainerOption) *Container {
	return core.For(t, opts...)
}

// Reset runs the warning checks for t's container now, reports the warnings through t,
// and clears every interaction and stub. It also happens automatically at test cleanup.
func Reset(t TestReporter) {
	t.Helper()
	core.Reset(t)
}

// WithLogger sends debug traces of deliveries, stubbings and verifications to logger.
func WithLogger(logger *slog.Logger) ContainerOption {
	return core.WithLogger(logger)
}
