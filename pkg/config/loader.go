package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// SPACECOMBAT_ENEMY_DIFFICULTY=2 or SPACECOMBAT_WORLD_WIDTH=8000.
const EnvPrefix = "SPACECOMBAT"

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"seed":      "seed",
	"test-mode": "test_mode",
	"dt":        "world.dt",
}

// Load builds a Config from defaults, an optional file, environment
// overrides and CLI flags, in increasing order of precedence. path may be
// empty; flags may be nil. When test mode is selected by any source the
// test-mode defaults are used as the base.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetDefault("test_mode", false)
	base := DefaultConfig()
	if v.GetBool("test_mode") {
		base.ApplyTestMode()
	}
	registerDefaults(v, "", reflect.ValueOf(base).Elem())

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	// Decoding replaces whatever the base carried; keep the flag honest.
	cfg.TestMode = base.TestMode || cfg.TestMode

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// registerDefaults walks a struct and registers every leaf under its
// dotted mapstructure key. Registering leaves rather than whole sections
// lets AutomaticEnv see each key.
func registerDefaults(v *viper.Viper, prefix string, val reflect.Value) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		fv := val.Field(i)
		if fv.Kind() == reflect.Struct {
			registerDefaults(v, key, fv)
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}
