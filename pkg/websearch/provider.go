package websearch

import "context"

// SearchProvider supplies best-effort auxiliary web context for a query.
// Implementations are total: on failure they return an empty string, never
// an error that could abort the answer cycle.
type SearchProvider interface {
	Search(ctx context.Context, query string) string
}
