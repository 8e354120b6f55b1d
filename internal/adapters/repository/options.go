package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithSource records where the rows came from, for stats and logs.
func WithSource(source string) Option {
	return func(s *MemoryStore) {
		if source != "" {
			s.source = source
		}
	}
}
