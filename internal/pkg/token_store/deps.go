package token_store

// Storage is the durable key/value backend. Get returns "" with a nil
// error when the key was never set.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
