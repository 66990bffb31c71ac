package fakes3

// DefaultDBPath is where the store keeps its sqlite database when no path
// is configured.
const DefaultDBPath = "fakes3.db"

type Config struct {
	// DBPath is the path to the sqlite database file holding all items.
	DBPath string
}

type ConfigOption func(*Config)

func WithDBPath(path string) ConfigOption {
	return func(cfg *Config) {
		cfg.DBPath = path
	}
}

func NewConfig(opts ...ConfigOption) Config {
	cfg := Config{
		DBPath: DefaultDBPath,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
