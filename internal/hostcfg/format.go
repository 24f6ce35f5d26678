package hostcfg

import "strings"

// HostPrefix is the routing prefix the host gateway expects on every model id.
const HostPrefix = "openrouter/"

// RouterHostID is the host-side id of the catalog's smart-router sentinel.
// "openrouter" is both the routing prefix and the provider name in the API
// id, so "openrouter/free" becomes "openrouter/openrouter/free".
const RouterHostID = "openrouter/openrouter/free"

// FormatHostID converts a catalog model id to the host's full provider path.
func FormatHostID(modelID string) string {
	if modelID == "openrouter/free" || modelID == "openrouter/free:free" {
		return RouterHostID
	}
	if strings.HasPrefix(modelID, HostPrefix) {
		return modelID
	}
	return HostPrefix + modelID
}

// StripHostPrefix converts a host-side id back to catalog id space.
func StripHostPrefix(hostID string) string {
	if hostID == RouterHostID {
		return "openrouter/free"
	}
	return strings.TrimPrefix(hostID, HostPrefix)
}
