package ratelimit

import "strings"

// healthEndpoint is never limited so probes keep working under load
var healthEndpoint = EndpointConfig{Path: "/health", Method: "GET"}

// MatchEndpoint returns the configuration for a route path and method, or nil.
// An exact path wins over a prefix; a configured path ending in "/" is a prefix,
// so "/v1/users/" covers "/v1/users/{id}/password".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == healthEndpoint.Path && method == healthEndpoint.Method {
		unlimited := healthEndpoint
		return &unlimited
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	var best *EndpointConfig
	for i := range configs {
		ec := &configs[i]
		if ec.Method != method || !strings.HasSuffix(ec.Path, "/") || !strings.HasPrefix(path, ec.Path) {
			continue
		}
		// Longest prefix wins
		if best == nil || len(ec.Path) > len(best.Path) {
			best = ec
		}
	}
	return best
}
