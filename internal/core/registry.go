package core

import (
	"sync"
)

// TestReporter is the minimal interface rehearse needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// For returns the Container for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Container, so mocks
// created in helpers share one event log. Options only apply on creation.
//
// If the TestReporter supports Cleanup (like *testing.T), the container is reset when
// the test completes, its warnings are reported, and it is removed from the registry.
func For(t TestReporter, opts ...ContainerOption) *Container {
	registryMu.Lock()
	defer registryMu.Unlock()

	if container, ok := registry[t]; ok {
		return container
	}

	container := NewContainer(opts...)
	registry[t] = container

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()

			ReportWarnings(t, container.Reset(), container.Strict())
		})
	}

	return container
}

// ReportWarnings surfaces warnings through t: logged if t can log, or failures when strict.
func ReportWarnings(t TestReporter, warnings []Warning, strict bool) {
	if len(warnings) == 0 {
		return
	}

	t.Helper()

	for _, warning := range warnings {
		switch reporter := t.(type) {
		case errorReporter:
			if strict {
				reporter.Errorf("rehearse: %s", warning)

				continue
			}
		default:
			if strict {
				t.Fatalf("rehearse: %s", warning)

				return
			}
		}

		if logger, ok := t.(logReporter); ok {
			logger.Logf("rehearse warning: %s", warning)
		}
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Container)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

type errorReporter interface {
	Errorf(format string, args ...any)
}

type logReporter interface {
	Logf(format string, args ...any)
}
