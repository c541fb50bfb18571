package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go-rdpaudit/executor"
	"go-rdpaudit/models"
	"go-rdpaudit/scheduler"
	"io/fs"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RDPAUDIT"

// Config defines the settings of a run. It is read once at startup.
type Config struct {
	Targets   string        `mapstructure:"targets" json:"targets"`
	Users     string        `mapstructure:"users" json:"users"`
	Passwords string        `mapstructure:"passwords" json:"passwords"`
	Output    string        `mapstructure:"output" json:"output"`
	Timeout   time.Duration `mapstructure:"timeout" json:"timeout"`
	Workers   int           `mapstructure:"workers" json:"workers"`
	BatchSize int           `mapstructure:"batch_size" json:"batch_size"`
	Delay     time.Duration `mapstructure:"delay" json:"delay"`
	Domain    string        `mapstructure:"domain" json:"domain"`
	Binary    string        `mapstructure:"binary" json:"binary"`
	ExtraArgs []string      `mapstructure:"extra_args" json:"extra_args"`
	DB        string        `mapstructure:"db" json:"db"`
	Listen    string        `mapstructure:"listen" json:"listen"`
	Precheck  Precheck      `mapstructure:"precheck" json:"precheck"`
	Log       LogConfig     `mapstructure:"log" json:"-"`
}

// Precheck defines the optional TCP reachability check run before the audit.
type Precheck struct {
	Enabled bool          `mapstructure:"enabled" json:"enabled"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// LogConfig defines the logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("targets", "ip.txt")
	v.SetDefault("users", "users.txt")
	v.SetDefault("passwords", "passwords.txt")
	v.SetDefault("output", "good.txt")
	v.SetDefault("timeout", executor.DefaultTimeout)
	v.SetDefault("workers", scheduler.DefaultWorkers)
	v.SetDefault("batch_size", scheduler.DefaultBatchSize)
	v.SetDefault("delay", executor.DefaultDelay)
	v.SetDefault("domain", models.DefaultDomain)
	v.SetDefault("binary", executor.DefaultBinary)
	v.SetDefault("extra_args", []string{})
	v.SetDefault("db", "rdpaudit.db")
	v.SetDefault("listen", ":8080")
	v.SetDefault("precheck.enabled", false)
	v.SetDefault("precheck.timeout", 3*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads the optional .env file, environment and config file into v and
// decodes the result. An empty file means "config.yaml" in the working
// directory or ./configs, if present.
func Load(v *viper.Viper, file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values a run cannot do without.
func (c Config) Validate() error {
	switch {
	case c.Targets == "" || c.Users == "" || c.Passwords == "":
		return errors.New("targets, users and passwords files are required")
	case c.Output == "":
		return errors.New("output file is required")
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	case c.BatchSize <= 0:
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	case c.Delay < 0:
		return fmt.Errorf("delay must not be negative, got %v", c.Delay)
	case c.Precheck.Enabled && c.Precheck.Timeout <= 0:
		return fmt.Errorf("precheck timeout must be positive, got %v", c.Precheck.Timeout)
	}
	return nil
}

// Executor returns the executor settings.
func (c Config) Executor() executor.Config {
	return executor.Config{
		Binary:    c.Binary,
		Domain:    c.Domain,
		Timeout:   c.Timeout,
		Delay:     c.Delay,
		ExtraArgs: c.ExtraArgs,
	}
}

// Scheduler returns the worker pool settings.
func (c Config) Scheduler() scheduler.Config {
	return scheduler.Config{
		Workers:   c.Workers,
		BatchSize: c.BatchSize,
	}
}
