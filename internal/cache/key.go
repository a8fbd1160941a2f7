package cache

// Key derives the cache key for a (topic, kind) pair. The topic is taken
// exactly as the caller gave it: no trimming, no case folding. Two requests
// are the same request only when both parts match byte for byte.
func Key(topic, kind string) string {
	return topic + "::" + kind
}
