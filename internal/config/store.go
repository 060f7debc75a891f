package config

// StoreConfig configures the SQLite persistence layer.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DefaultStoreConfig returns the default database location.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DatabasePath: ".cadence/cadence.db",
	}
}
