package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LEXIZ_LOG_LEVEL.
const EnvPrefix = "LEXIZ"

// Load returns the default configuration overlaid with the YAML file at
// path (if non-empty) and LEXIZ_* environment variables. Lists and maps
// present in the file replace the defaults rather than merging with them.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper already knows about.
	_ = v.BindEnv("store.path", "LEXIZ_DB")
	_ = v.BindEnv("log.level", "LEXIZ_LOG_LEVEL")
	_ = v.BindEnv("log.file", "LEXIZ_LOG_FILE")
	_ = v.BindEnv("metrics.addr", "LEXIZ_METRICS_ADDR")
	_ = v.BindEnv("reminder.every", "LEXIZ_REMINDER_EVERY")
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := Default()
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.ZeroFields = true
	})
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(errors.New("invalid config"), err)
	}
	return &cfg, nil
}
