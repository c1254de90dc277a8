package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
)

// EnvPrefix prefixes environment overrides, e.g. BCRYPT_COST or
// BCRYPT_LOG_LEVEL.
const EnvPrefix = "BCRYPT"

// Keys understood by [Load].
const (
	KeyCost      = "cost"
	KeyVersion   = "version"
	KeyWorkers   = "workers"
	KeyTimeout   = "timeout"
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
)

// Defaults applied before any file, environment or flag value.
const (
	DefaultVersion   = "2b"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// ErrInvalid wraps every validation failure returned by [Load].
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the decoded command-line configuration.
type Config struct {
	Cost    int           `mapstructure:"cost" validate:"min=4,max=31"`
	Version string        `mapstructure:"version" validate:"oneof=2b 2y"`
	Workers int           `mapstructure:"workers" validate:"min=1"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Log     Log           `mapstructure:"log"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// BcryptVersion returns the configured revision as a [bcrypt.Version].
func (c Config) BcryptVersion() bcrypt.Version {
	v, _ := bcrypt.ParseVersion(c.Version)
	return v
}

// New returns a viper instance with defaults and environment lookup set up.
// Callers bind flags on it before calling [Load].
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyCost, bcrypt.DefaultCost)
	v.SetDefault(KeyVersion, DefaultVersion)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file into v when file is not empty, decodes the result and
// validates it. The file type is inferred from its extension. A workers
// value of 0 means runtime.NumCPU().
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags. Every failing field is
// reported, joined under [ErrInvalid].
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s: value %v fails %q", keyOf(fe), fe.Value(), ruleOf(fe)))
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// keyOf maps a field error back to its configuration key, e.g. "log.level".
func keyOf(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	ns = strings.TrimPrefix(ns, "Config.")
	return strings.ToLower(ns)
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
