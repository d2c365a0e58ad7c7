package autoreport

import "fmt"

// Conf loads YAML from disk and builds a Runtime in one step, so embedding
// the agent stays a two-liner: Conf → Run.
func Conf(path string, opts ...RuntimeOption) (*Runtime, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewRuntime(cfg, opts...)
}

// ConfFromConfig builds a Runtime from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return NewRuntime(cfg, opts...)
}
