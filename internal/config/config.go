// Package config handles repository layout, the discovery configuration record,
// and global (per-user) configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	RepoDir       = ".crossdomain"
	ConfigFile    = "config.yml"
	ConceptsFile  = "concepts.jsonl"
	CitationsFile = "citations.jsonl"
	CacheDir      = "cache"
	DBFile        = "concepts.db"
)

// Default values for the discovery configuration.
const (
	DefaultMaxVocabularySize     = 5000
	DefaultAlpha                 = 0.35
	DefaultBeta                  = 0.35
	DefaultGamma                 = 0.2
	DefaultDelta                 = 0.1
	DefaultNeighborhoodThreshold = 0.65
	DefaultThresholdStep         = 0.05
	DefaultMinThreshold          = 0.2
	DefaultTopN                  = 5
	DefaultNoveltyCeiling        = 0.95
	DefaultNoveltyFallback       = 0.5
	DefaultCommonalitySample     = 200
)

// ErrInvalidConfig is returned when a configuration record fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the single configuration record passed to the vector space, novelty model,
// bridge scorer and path finder. It is stored in .crossdomain/config.yml.
//
// The four bridge weights form an affine scoring function and need not sum to 1.
type Config struct {
	MaxVocabularySize int `yaml:"max_vocabulary_size" json:"max_vocabulary_size" validate:"gte=1"`

	Alpha float64 `yaml:"alpha" json:"alpha" validate:"gte=0"` // weight of similarity to domain 1
	Beta  float64 `yaml:"beta" json:"beta" validate:"gte=0"`   // weight of similarity to domain 2
	Gamma float64 `yaml:"gamma" json:"gamma" validate:"gte=0"` // weight of novelty
	Delta float64 `yaml:"delta" json:"delta" validate:"gte=0"` // weight of the commonality penalty

	NeighborhoodThreshold float64 `yaml:"neighborhood_threshold" json:"neighborhood_threshold" validate:"gte=0,lte=1"`
	ThresholdStep         float64 `yaml:"threshold_step" json:"threshold_step" validate:"gt=0,lte=1"`
	MinThreshold          float64 `yaml:"min_threshold" json:"min_threshold" validate:"gte=0,ltefield=NeighborhoodThreshold"`

	TopN int `yaml:"top_n" json:"top_n" validate:"gte=1"`

	NoveltyCeiling  float64 `yaml:"novelty_ceiling" json:"novelty_ceiling" validate:"gt=0,lt=1"`
	NoveltyFallback float64 `yaml:"novelty_fallback" json:"novelty_fallback" validate:"gte=0,ltefield=NoveltyCeiling"`

	CommonalitySampleSize int `yaml:"commonality_sample_size" json:"commonality_sample_size" validate:"gte=1"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		MaxVocabularySize:     DefaultMaxVocabularySize,
		Alpha:                 DefaultAlpha,
		Beta:                  DefaultBeta,
		Gamma:                 DefaultGamma,
		Delta:                 DefaultDelta,
		NeighborhoodThreshold: DefaultNeighborhoodThreshold,
		ThresholdStep:         DefaultThresholdStep,
		MinThreshold:          DefaultMinThreshold,
		TopN:                  DefaultTopN,
		NoveltyCeiling:        DefaultNoveltyCeiling,
		NoveltyFallback:       DefaultNoveltyFallback,
		CommonalitySampleSize: DefaultCommonalitySample,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its documented range.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s%s", yamlName(fe.StructField()), fe.Tag(), paramSuffix(fe.Param())))
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + yamlName(p)
}

// yamlName converts a Go field name to its yaml key (NeighborhoodThreshold -> neighborhood_threshold).
func yamlName(field string) string {
	var sb strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// RepoPath returns the path to the .crossdomain directory from a root path.
func RepoPath(root string) string {
	return filepath.Join(root, RepoDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RepoDir, ConfigFile)
}

// ConceptsPath returns the path to concepts.jsonl from a root path.
func ConceptsPath(root string) string {
	return filepath.Join(root, RepoDir, ConceptsFile)
}

// CitationsPath returns the path to citations.jsonl from a root path.
func CitationsPath(root string) string {
	return filepath.Join(root, RepoDir, CitationsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir)
}

// DBPath returns the path to concepts.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a crossdomain repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RepoPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a crossdomain repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a crossdomain repository (no %s directory found)", RepoDir)
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
// Keys missing from the file keep their default values. A missing file yields the defaults.
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Init creates the repository directory layout with a default config and empty data files.
// Existing files are left untouched.
func Init(root string) error {
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating repository directories: %w", err)
	}

	if _, err := os.Stat(ConfigPath(root)); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(root); err != nil {
			return err
		}
	}

	for _, p := range []string{ConceptsPath(root), CitationsPath(root)} {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Base(p), err)
		}
		f.Close()
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
