package zone

import (
	"log/slog"

	"github.com/coastwatch/broadcast-engine/internal/alert"
)

// Registry is the read-only catalog of targetable coastal zones.
// A production deployment would back this with a managed data store;
// here it is immutable configuration shared safely across goroutines.
type Registry struct {
	logger *slog.Logger
	zones  []alert.Zone
	byID   map[string]alert.Zone
}

// NewRegistry creates a registry over the built-in coastal zone catalog
func NewRegistry(logger *slog.Logger) *Registry {
	return newRegistry(logger, catalog)
}

func newRegistry(logger *slog.Logger, zones []alert.Zone) *Registry {
	byID := make(map[string]alert.Zone, len(zones))
	for _, z := range zones {
		byID[z.ID] = z
	}
	return &Registry{logger: logger, zones: zones, byID: byID}
}

// List returns every catalogued zone. The slice is a copy; callers may
// reorder it freely.
func (r *Registry) List() []alert.Zone {
	out := make([]alert.Zone, len(r.zones))
	copy(out, r.zones)
	return out
}

// Get returns the zone with the given ID
func (r *Registry) Get(id string) (alert.Zone, bool) {
	z, ok := r.byID[id]
	return z, ok
}

// LanguagesFor returns the primary languages for a zone. Unknown zones get
// the default set so operators always receive an actionable suggestion,
// even for new or unmapped areas.
func (r *Registry) LanguagesFor(id string) []alert.Language {
	z, ok := r.byID[id]
	if !ok || len(z.PrimaryLanguages) == 0 {
		r.logger.Debug("No language mapping for zone, using defaults", "zone_id", id)
		out := make([]alert.Language, len(alert.DefaultLanguages))
		copy(out, alert.DefaultLanguages)
		return out
	}
	out := make([]alert.Language, len(z.PrimaryLanguages))
	copy(out, z.PrimaryLanguages)
	return out
}
