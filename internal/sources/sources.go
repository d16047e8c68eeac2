package sources

import (
	"context"
	"fmt"

	"ecommerce-trend-analyzer/internal/models"
)

// Adapter translates one source's native query/response shape into
// normalized statistics for a single keyword+country.
// Fetch may suspend while awaiting the remote source; implementations hold
// no per-request state, so a single adapter instance serves all requests.
type Adapter interface {
	Fetch(ctx context.Context, query models.TrendQuery) (models.SourceStats, error)
}

// SourceError wraps any failure from an underlying data source
// (network, malformed response, missing required field) with the
// source it came from. The original message is preserved.
type SourceError struct {
	Source models.Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s API error: %v", sourceDisplayName(e.Source), e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func sourceDisplayName(source models.Source) string {
	switch source {
	case models.SourceAmazon:
		return "Amazon"
	case models.SourceEbay:
		return "eBay"
	case models.SourceEtsy:
		return "Etsy"
	case models.SourceGoogle:
		return "Google Trends"
	default:
		return string(source)
	}
}

// Registry is the process-wide dispatch table from source to adapter.
// It is built once at startup and read-only afterwards, so it is safe to
// share across concurrent requests without locking.
type Registry struct {
	adapters map[models.Source]Adapter
}

// NewRegistry builds a registry from the given dispatch table.
// The map is copied; later changes to the argument are not observed.
func NewRegistry(adapters map[models.Source]Adapter) *Registry {
	copied := make(map[models.Source]Adapter, len(adapters))
	for source, adapter := range adapters {
		copied[source] = adapter
	}

	return &Registry{adapters: copied}
}

// Lookup returns the adapter registered for the source, if any
func (r *Registry) Lookup(source models.Source) (Adapter, bool) {
	adapter, ok := r.adapters[source]
	return adapter, ok
}
