// Package config loads the service configuration: YAML file, struct defaults,
// DAO_* environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

// EnvPrefix prefixes every environment override, e.g. DAO_DATABASE_PASSWORD.
const EnvPrefix = "DAO"

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	DAO        DAOConfig        `yaml:"dao"`
	Auth       AuthConfig       `yaml:"auth"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host"             default:"0.0.0.0"`
	Port            int           `yaml:"port"             default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver   string `yaml:"driver"   default:"postgres" validate:"oneof=postgres memory"`
	Host     string `yaml:"host"     default:"localhost" validate:"required_if=Driver postgres"`
	Port     int    `yaml:"port"     default:"5432" validate:"min=1,max=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"dao_governance" validate:"required_if=Driver postgres"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level"       default:"info" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format"      default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// RatioConfig is a num/den council threshold.
type RatioConfig struct {
	Num uint32 `yaml:"num" default:"1"`
	Den uint32 `yaml:"den" default:"2" validate:"gt=0,gtefield=Num"`
}

// DAOConfig bounds DAO payloads and seeds policy defaults.
type DAOConfig struct {
	MaxStringLength      int         `yaml:"max_string_length"      default:"64"  validate:"gt=0"`
	MaxMetadataLength    int         `yaml:"max_metadata_length"    default:"256" validate:"gte=0"`
	PalletID             string      `yaml:"pallet_id"              default:"dao/gov1" validate:"len=8"`
	DefaultApproveOrigin RatioConfig `yaml:"default_approve_origin"`
	DefaultRejectOrigin  RatioConfig `yaml:"default_reject_origin"`
}

// AuthConfig contains bearer token validation settings
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" validate:"required,min=32"`
	Issuer    string `yaml:"issuer"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool   `yaml:"enabled"      default:"true"`
	MetricsPath string `yaml:"metrics_path" default:"/metrics" validate:"startswith=/"`
}

// envOverrides lists the settings that may come from the environment.
// Pointers stay nil when the variable is unset so file values survive.
type envOverrides struct {
	ServerHost       *string `envconfig:"SERVER_HOST"`
	ServerPort       *int    `envconfig:"SERVER_PORT"`
	DatabaseDriver   *string `envconfig:"DATABASE_DRIVER"`
	DatabaseHost     *string `envconfig:"DATABASE_HOST"`
	DatabasePort     *int    `envconfig:"DATABASE_PORT"`
	DatabaseUser     *string `envconfig:"DATABASE_USER"`
	DatabasePassword *string `envconfig:"DATABASE_PASSWORD"`
	DatabaseName     *string `envconfig:"DATABASE_NAME"`
	LogLevel         *string `envconfig:"LOG_LEVEL"`
	LogFormat        *string `envconfig:"LOG_FORMAT"`
	JWTSecret        *string `envconfig:"AUTH_JWT_SECRET"`
}

// Load reads configPath (optional), applies defaults and DAO_* environment
// overrides, and validates the result.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if configPath != "" {
		buf, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	setIf(&cfg.Server.Host, env.ServerHost)
	setIf(&cfg.Server.Port, env.ServerPort)
	setIf(&cfg.Database.Driver, env.DatabaseDriver)
	setIf(&cfg.Database.Host, env.DatabaseHost)
	setIf(&cfg.Database.Port, env.DatabasePort)
	setIf(&cfg.Database.User, env.DatabaseUser)
	setIf(&cfg.Database.Password, env.DatabasePassword)
	setIf(&cfg.Database.Database, env.DatabaseName)
	setIf(&cfg.Logging.Level, env.LogLevel)
	setIf(&cfg.Logging.Format, env.LogFormat)
	setIf(&cfg.Auth.JWTSecret, env.JWTSecret)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg against its struct constraints.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// drop the root "Config." segment
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %q", field, fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Limits returns the configured payload bounds.
func (c DAOConfig) Limits() dao.Limits {
	return dao.Limits{
		MaxStringLength:   c.MaxStringLength,
		MaxMetadataLength: c.MaxMetadataLength,
	}
}

// Pallet returns the pallet id mixed into DAO account derivation.
func (c DAOConfig) Pallet() (dao.PalletID, error) {
	return dao.ParsePalletID(c.PalletID)
}

// PolicyDefaults returns the origins applied when a payload omits them.
func (c DAOConfig) PolicyDefaults() dao.PolicyDefaults {
	return dao.PolicyDefaults{
		ApproveOrigin: dao.Ratio{Num: c.DefaultApproveOrigin.Num, Den: c.DefaultApproveOrigin.Den},
		RejectOrigin:  dao.Ratio{Num: c.DefaultRejectOrigin.Num, Den: c.DefaultRejectOrigin.Den},
	}
}
