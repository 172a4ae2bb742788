package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of environment overrides
	EnvPrefix = "DOTBOOT_"

	// EnvCoderRegion is consulted when no region is configured
	EnvCoderRegion = "CODER_REGION"

	// envNestingDelim separates nested keys in environment variable names
	envNestingDelim = "__"
)

// Config is the effective dotboot configuration
type Config struct {
	Region       string   `koanf:"region" toml:"region"`
	HomeDir      string   `koanf:"home_dir" toml:"home_dir"`
	SourceDir    string   `koanf:"source_dir" toml:"source_dir"`
	IdentityFile string   `koanf:"identity_file" toml:"identity_file"`
	Targets      []string `koanf:"targets" toml:"targets"`
	Apply        Apply    `koanf:"apply" toml:"apply"`
	NixCache     NixCache `koanf:"nix_cache" toml:"nix_cache"`
}

// Apply holds write behaviour settings
type Apply struct {
	Atomic bool `koanf:"atomic" toml:"atomic"`
}

// NixCache describes the personal binary cache wired into nix.conf
type NixCache struct {
	ConfPath      string `koanf:"conf_path" toml:"conf_path"`
	HookPath      string `koanf:"hook_path" toml:"hook_path"`
	SecretKeyPath string `koanf:"secret_key_path" toml:"secret_key_path"`
	PublicKey     string `koanf:"public_key" toml:"public_key"`
	Params        string `koanf:"params" toml:"params"`
	// Substituters maps a region name to the cache URL used there
	Substituters map[string]string `koanf:"substituters" toml:"substituters"`
}

// Substituter returns the cache URL for region with Params appended, and
// false when the region has no cache.
func (n NixCache) Substituter(region Region) (string, bool) {
	if region.Kind == RegionOther {
		return "", false
	}
	url, ok := n.Substituters[region.String()]
	if !ok || url == "" {
		return "", false
	}
	if n.Params == "" {
		return url, true
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + n.Params, true
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// File is an explicit config file; it must exist when set
	File string
	// Paths resolves the default file location and empty directories
	Paths paths.Paths
}

// Load builds the configuration from defaults, the user file and the
// environment, then resolves and validates it.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User file
	path, required := opts.File, true
	if path == "" && opts.Paths != nil {
		path, required = opts.Paths.ConfigFile(), false
	}
	if path != "" {
		path = paths.ExpandHome(path)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
					WithDetail(errors.DetailPath, path)
			}
		} else if required {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path).
				WithDetail(errors.DetailPath, path)
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, envNestingDelim, ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	// 5. Post-process
	if err := cfg.resolve(opts.Paths); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolve fills in environment dependent values
func (c *Config) resolve(p paths.Paths) error {
	if c.Region == "" {
		c.Region = os.Getenv(EnvCoderRegion)
	}

	c.HomeDir = paths.ExpandHome(c.HomeDir)
	c.SourceDir = paths.ExpandHome(c.SourceDir)
	c.IdentityFile = paths.ExpandHome(c.IdentityFile)

	if c.HomeDir == "" {
		if p != nil {
			c.HomeDir = p.HomeDir()
		} else {
			home, err := paths.GetHomeDirectory()
			if err != nil {
				return err
			}
			c.HomeDir = home
		}
	}
	if c.SourceDir == "" && p != nil {
		c.SourceDir = p.SourceRoot()
	}
	return nil
}

// Validate checks values that would otherwise fail late during apply
func (c *Config) Validate() error {
	for field, path := range map[string]string{
		"home_dir":                  c.HomeDir,
		"nix_cache.conf_path":       c.NixCache.ConfPath,
		"nix_cache.hook_path":       c.NixCache.HookPath,
		"nix_cache.secret_key_path": c.NixCache.SecretKeyPath,
	} {
		if path != "" && !filepath.IsAbs(path) {
			return errors.Newf(errors.ErrConfigValid, "%s must be an absolute path, got %q", field, path).
				WithDetail(errors.DetailField, field)
		}
	}

	for field, v := range map[string]string{
		"nix_cache.hook_path":       c.NixCache.HookPath,
		"nix_cache.secret_key_path": c.NixCache.SecretKeyPath,
		"nix_cache.public_key":      c.NixCache.PublicKey,
	} {
		if strings.ContainsAny(v, "\r\n") {
			return errors.Newf(errors.ErrConfigValid, "%s must be a single line", field).
				WithDetail(errors.DetailField, field)
		}
	}

	for _, region := range c.NixCache.Regions() {
		if ParseRegion(region).Kind == RegionOther {
			return errors.Newf(errors.ErrConfigValid,
				"nix_cache.substituters has unknown region %q, expected \"home\" or \"aws-<region>\"", region).
				WithDetail(errors.DetailField, "nix_cache.substituters")
		}
	}

	for _, pattern := range c.Targets {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Newf(errors.ErrConfigValid, "invalid target pattern %q", pattern).
				WithDetail(errors.DetailField, "targets")
		}
	}
	return nil
}

// Regions returns the regions with a configured cache, sorted
func (n NixCache) Regions() []string {
	regions := make([]string, 0, len(n.Substituters))
	for region := range n.Substituters {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
