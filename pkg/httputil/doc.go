// Package httputil fetches graph documents over HTTP.
//
// [Fetch] downloads a URL with a bounded body size and retries transient
// failures (network errors, 5xx and 429 responses) through [Retry], which
// backs off exponentially between attempts:
//
//	body, err := httputil.Fetch(ctx, nil, "https://example.com/graph.json")
//
// Permanent failures map onto pkg/errors codes: 404 is NOT_FOUND, other
// 4xx responses are INVALID_INPUT.
package httputil
