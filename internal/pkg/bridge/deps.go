package bridge

// CacheInvalidator is the slice of the query cache the bridge drives:
// fire-and-forget group invalidation.
type CacheInvalidator interface {
	Invalidate(group string)
}
