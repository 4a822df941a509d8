package cache

// Well-known registration keys, shared between the wiring that registers
// fetchers and the views that read them.
const (
	KeyFilesList    = "files:list"
	KeySharesWithMe = "shares:with_me"
	KeySharesByMe   = "shares:by_me"
)
