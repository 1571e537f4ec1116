package storage

// Provider is a key-value record store. Records are opaque JSON documents
// addressed by (kind, id); shaping them is the caller's job.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Records
	Put(kind Kind, id string, data []byte) error
	Get(kind Kind, id string) ([]byte, error)
	List(kind Kind) ([]Record, error)
	Delete(kind Kind, id string) error

	// Utils
	GetConfigPath() string
}
