package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/molgraph/pkg/errors"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "MOLGRAPH"

// newViper builds a Viper instance with YAML file type, MOLGRAPH_ env prefix
// and a "." → "_" key replacer so that "cache.redis.addr" resolves to
// MOLGRAPH_CACHE_REDIS_ADDR.  The defaults are registered as viper defaults,
// which makes every key known to viper and therefore overridable from the
// environment, and survives the re-read done by WatchConfig.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	base, err := yaml.Marshal(Default())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "config: encode defaults")
	}
	var sections map[string]interface{}
	if err := yaml.Unmarshal(base, &sections); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "config: decode defaults")
	}
	for key, value := range sections {
		v.SetDefault(key, value)
	}
	return v, nil
}

// Load reads the YAML file at configPath over the defaults, merges any
// MOLGRAPH_* environment overrides and validates the result.  An empty
// configPath loads from defaults and environment only.
func Load(configPath string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "config: failed to read config file").
				WithDetail(configPath)
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from defaults and MOLGRAPH_* environment
// variables only.
//
//	MOLGRAPH_<SECTION>_<FIELD>   e.g.  MOLGRAPH_DATASET_ROOT, MOLGRAPH_CACHE_BACKEND
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "config: failed to unmarshal configuration")
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the re-parsed Config
// whenever the file changes on disk.  It is meant for settings that are safe
// to change at runtime, such as the log level.  An edit that fails to parse
// or validate is passed to onError (when non-nil) and onChange is not called.
// Watch itself returns after the initial read; viper owns the watcher
// goroutine.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v, err := newViper()
	if err != nil {
		return err
	}
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "config: failed to read config file").
			WithDetail(configPath)
	}

	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad wraps Load and panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic("config: MustLoad failed: " + err.Error())
	}
	return cfg
}

//Personal.AI order the ending
