package port

type Persister interface {
	// Start prepares the backing store. It must be called once before Save or Recover.
	Start() error
	// Save replaces the value stored under key.
	Save(key string, v any) error
	// Recover decodes the value stored under key into v, leaving v untouched if nothing was saved.
	Recover(key string, v any) error
}
