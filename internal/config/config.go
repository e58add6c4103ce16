package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/scoring"
)

// FileName is the config file looked up by FindRoot.
const FileName = "optimizer_config.yaml"

// EnvPrefix prefixes the environment variables that override config keys,
// e.g. ARTOPT_STRATEGY.
const EnvPrefix = "ARTOPT"

// StrategyAll runs every search strategy and compares their results.
const StrategyAll = "all"

const (
	KeyCatalog       = "catalog"
	KeyStrategy      = "strategy"
	KeyConfirm       = "confirm"
	KeyChar          = "char"
	KeyUID           = "uid"
	KeyEnkaUserAgent = "enka_user_agent"
	KeyEnkaSetNames  = "enka_set_names"
	KeyWeights       = "weights"
)

// scalarKeys may be overridden by flags and environment variables. Weights
// and set names are maps keyed case-sensitively and only come from the file.
var scalarKeys = []string{KeyCatalog, KeyStrategy, KeyConfirm, KeyChar, KeyUID, KeyEnkaUserAgent}

type Config struct {
	Catalog       string
	Strategy      string
	Confirm       bool
	Char          string
	UID           string
	EnkaUserAgent string
	EnkaSetNames  map[string]string
	Weights       scoring.Weights

	// Path is the config file that was read, empty when none was found.
	Path string
}

func Defaults() Config {
	return Config{
		Catalog:       "artifacts.txt",
		Strategy:      "iterative",
		Confirm:       true,
		EnkaUserAgent: "gcsim-rostering artifact_optimizer",
		Weights:       scoring.DefaultWeights(),
	}
}

type FileConfig struct {
	Catalog       string             `yaml:"catalog"`
	Strategy      string             `yaml:"strategy"`
	Confirm       *bool              `yaml:"confirm"`
	Char          string             `yaml:"char"`
	UID           string             `yaml:"uid"`
	EnkaUserAgent string             `yaml:"enka_user_agent"`
	EnkaSetNames  map[string]string  `yaml:"enka_set_names"`
	Weights       map[string]float64 `yaml:"weights"`
}

var allowedKeys = map[string]struct{}{
	KeyCatalog:       {},
	KeyStrategy:      {},
	KeyConfirm:       {},
	KeyChar:          {},
	KeyUID:           {},
	KeyEnkaUserAgent: {},
	KeyEnkaSetNames:  {},
	KeyWeights:       {},
}

func (c *FileConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			k := value.Content[i]
			if _, ok := allowedKeys[k.Value]; !ok {
				return fmt.Errorf("line %d: unknown config key %q", k.Line, k.Value)
			}
		}
	}
	type raw FileConfig
	var tmp raw
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*c = FileConfig(tmp)
	return nil
}

// Load reads the config file at path (a missing file is not an error) and
// overlays environment variables and any flags in fs that were set on the
// command line. Precedence is flag, then env, then file, then default.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	cfg := Defaults()

	fc, found, err := loadFileConfig(path)
	if err != nil {
		return Config{}, err
	}
	if found {
		cfg.Path = path
		applyFile(&cfg, fc, filepath.Dir(path))
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetDefault(KeyCatalog, cfg.Catalog)
	v.SetDefault(KeyStrategy, cfg.Strategy)
	v.SetDefault(KeyConfirm, cfg.Confirm)
	v.SetDefault(KeyChar, cfg.Char)
	v.SetDefault(KeyUID, cfg.UID)
	v.SetDefault(KeyEnkaUserAgent, cfg.EnkaUserAgent)
	for _, k := range scalarKeys {
		if err := v.BindEnv(k); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", k, err)
		}
		if fs == nil {
			continue
		}
		if f := fs.Lookup(k); f != nil {
			if err := v.BindPFlag(k, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", k, err)
			}
		}
	}

	cfg.Catalog = strings.TrimSpace(v.GetString(KeyCatalog))
	cfg.Strategy = strings.ToLower(strings.TrimSpace(v.GetString(KeyStrategy)))
	cfg.Confirm = v.GetBool(KeyConfirm)
	cfg.Char = strings.TrimSpace(v.GetString(KeyChar))
	cfg.UID = strings.TrimSpace(v.GetString(KeyUID))
	cfg.EnkaUserAgent = strings.TrimSpace(v.GetString(KeyEnkaUserAgent))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Strategy {
	case "iterative", "recursive", "cartesian", StrategyAll:
	default:
		return fmt.Errorf("invalid strategy %q (expected iterative, recursive, cartesian or all)", c.Strategy)
	}
	if c.UID == "" && c.Catalog == "" {
		return errors.New("missing catalog (provide a catalog path or set uid)")
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	return nil
}

// applyFile overlays fc on cfg. A relative catalog path is taken relative
// to dir, the directory holding the config file.
func applyFile(cfg *Config, fc FileConfig, dir string) {
	if s := strings.TrimSpace(fc.Catalog); s != "" {
		if !filepath.IsAbs(s) {
			s = filepath.Join(dir, s)
		}
		cfg.Catalog = s
	}
	if s := strings.TrimSpace(fc.Strategy); s != "" {
		cfg.Strategy = s
	}
	if fc.Confirm != nil {
		cfg.Confirm = *fc.Confirm
	}
	cfg.Char = strings.TrimSpace(fc.Char)
	cfg.UID = strings.TrimSpace(fc.UID)
	if s := strings.TrimSpace(fc.EnkaUserAgent); s != "" {
		cfg.EnkaUserAgent = s
	}
	if len(fc.EnkaSetNames) > 0 {
		cfg.EnkaSetNames = fc.EnkaSetNames
	}
	// A weights table replaces the default one; keys it leaves out weigh 0.
	if fc.Weights != nil {
		cfg.Weights = scoring.Weights(fc.Weights)
	}
}

func loadFileConfig(path string) (FileConfig, bool, error) {
	if strings.TrimSpace(path) == "" {
		return FileConfig{}, false, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, fmt.Errorf("read config yaml %s: %w", path, err)
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		// A file without a document decodes to io.EOF.
		if errors.Is(err, io.EOF) {
			return FileConfig{}, true, nil
		}
		return FileConfig{}, false, fmt.Errorf("parse config yaml %s: %w", path, err)
	}
	return fc, true, nil
}
