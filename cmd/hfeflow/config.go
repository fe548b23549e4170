package main

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/decibelcooper/hfeflow/catalog"
	"github.com/decibelcooper/hfeflow/hfe"
	"github.com/decibelcooper/hfeflow/source"
)

type catalogConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type config struct {
	Params  hfe.Params     `mapstructure:"params"`
	Source  source.Options `mapstructure:"source"`
	Catalog catalogConfig  `mapstructure:"catalog"`
	Workers int            `mapstructure:"workers"`
	Metrics string         `mapstructure:"metrics"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("HFEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("catalog.driver", "sqlite3")
	v.SetDefault("catalog.dsn", "hfeflow.db")
	v.SetDefault("workers", 1)
	v.SetDefault("metrics", "")
	setDefaults(v, "params", hfe.DefaultParams())
	setDefaults(v, "source", source.DefaultOptions())
	return v
}

// setDefaults registers every tagged field of s under prefix. AutomaticEnv
// only resolves keys viper already knows about.
func setDefaults(v *viper.Viper, prefix string, s any) {
	rv := reflect.ValueOf(s)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := rt.Field(i).Tag.Get("mapstructure")
		if key == "" || key == "-" {
			continue
		}
		v.SetDefault(prefix+"."+key, rv.Field(i).Interface())
	}
}

// loadConfig reads the optional configuration file and decodes it over the
// defaults.
func loadConfig(v *viper.Viper, fname string) (config, error) {
	cfg := config{
		Params: hfe.DefaultParams(),
		Source: source.DefaultOptions(),
	}
	if fname != "" {
		v.SetConfigFile(fname)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("error reading config file %s: %w", fname, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if cfg.Workers < 1 {
		return cfg, errors.New("workers must be positive")
	}
	return cfg, nil
}

func (a *app) openCatalog() (*catalog.Catalog, error) {
	return catalog.Open(a.cfg.Catalog.Driver, a.cfg.Catalog.DSN)
}
