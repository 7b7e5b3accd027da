package resolve

// DedupeBy removes duplicates by identity key, preserving first-seen order.
// A positive limit caps the result length; collection stops once the limit
// is reached.
func DedupeBy[T any, K comparable](items []T, limit int, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
