package utilities

// Contains reports whether needle occurs in haystack. Used to
// deduplicate candidate ids in bulk sends.
func Contains[T comparable](haystack []T, needle T) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
