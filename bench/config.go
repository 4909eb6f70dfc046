package bench

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// FileConfig is the on-disk shape of a benchmark batch config (spec §6's
// optional config file): include/exclude globs and a per-file timeout,
// the same fields Config carries, but with Timeout expressed as a
// human-readable duration string so the file stays editable by hand.
type FileConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	Timeout string   `yaml:"timeout"`
}

// LoadConfig reads a YAML batch config from path and merges it onto dir,
// producing a Config ready for New. CLI flags are applied by the caller
// after LoadConfig returns, so flags always win over the file (the same
// "file provides defaults, flags override" role the teacher's top-level
// Config struct plays for the engine).
func LoadConfig(path, dir string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "bench: reading config %s", path)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, errors.Wrapf(err, "bench: parsing config %s", path)
	}

	cfg := Config{Dir: dir, Include: fc.Include, Exclude: fc.Exclude}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return Config{}, errors.Wrapf(err, "bench: parsing timeout %q in %s", fc.Timeout, path)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
