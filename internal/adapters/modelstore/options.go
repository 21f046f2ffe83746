package modelstore

// defaultPath matches the training pipeline's output location.
const defaultPath = "outputs/credit_default.json"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithPath sets the artifact path to load from.
func WithPath(path string) Option {
	return func(s *FileStore) {
		if path != "" {
			s.path = path
		}
	}
}
