package tracking

// Metadata keys that, once learned, survive every later event: an
// incoming event can refresh them with a real value but never blank
// them out.
var stickyKeys = map[string]struct{}{
	"searched_profile": {},
	"location":         {},
}

// mergeMeta combines the stored metadata with an incoming event's
// metadata. Incoming keys overwrite stored ones; keys the event omits
// are kept. Sticky keys additionally ignore empty incoming values so a
// learned fact is never silently dropped.
func mergeMeta(existing, incoming map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		if _, sticky := stickyKeys[k]; sticky && isEmptyValue(v) {
			if prev, ok := merged[k]; ok && !isEmptyValue(prev) {
				continue
			}
		}
		merged[k] = v
	}
	return merged
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
