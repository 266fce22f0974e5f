package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/joseph-ayodele/results-parser/constants"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Parse    ParseConfig
	Extract  ExtractConfig
	Output   OutputConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ParseConfig holds page parsing and sharding configuration
type ParseConfig struct {
	Workers        int
	PagesPerWorker int
	// AbsentGrade is the grade given to ABS/CAN totals printed without one.
	AbsentGrade    string
	StrictSubjects bool
}

// ExtractConfig holds configuration of the external extraction command
type ExtractConfig struct {
	Command string
	Timeout time.Duration
}

// OutputConfig holds output-related configuration
type OutputConfig struct {
	Dir string
}

const envPrefix = "RESULTS"

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_url", "")
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("db_min_conns", 1)
	v.SetDefault("db_max_conn_lifetime", 30*time.Minute)
	v.SetDefault("db_max_conn_idle_time", 5*time.Minute)
	v.SetDefault("db_dial_timeout", 3*time.Second)

	v.SetDefault("workers", 4)
	v.SetDefault("pages_per_worker", 100)
	v.SetDefault("absent_grade", "")
	v.SetDefault("strict_subjects", false)

	v.SetDefault("extract_command", "")
	v.SetDefault("extract_timeout", 30*time.Second)

	v.SetDefault("output_dir", ".")
}

// LoadConfig loads configuration from RESULTS_* environment variables and,
// when cfgFile is set, from that YAML/JSON file. Environment wins over file.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("read config file %s", cfgFile), err)
		}
	}

	return &Config{
		Database: DatabaseConfig{
			DSN:             v.GetString("db_url"),
			MaxConns:        v.GetInt32("db_max_conns"),
			MinConns:        v.GetInt32("db_min_conns"),
			MaxConnLifetime: v.GetDuration("db_max_conn_lifetime"),
			MaxConnIdleTime: v.GetDuration("db_max_conn_idle_time"),
			DialTimeout:     v.GetDuration("db_dial_timeout"),
		},
		Parse: ParseConfig{
			Workers:        v.GetInt("workers"),
			PagesPerWorker: v.GetInt("pages_per_worker"),
			AbsentGrade:    strings.ToUpper(strings.TrimSpace(v.GetString("absent_grade"))),
			StrictSubjects: v.GetBool("strict_subjects"),
		},
		Extract: ExtractConfig{
			Command: v.GetString("extract_command"),
			Timeout: v.GetDuration("extract_timeout"),
		},
		Output: OutputConfig{
			Dir: v.GetString("output_dir"),
		},
	}, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Parse.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "workers must be at least 1", ErrInvalidInput)
	}
	if c.Parse.PagesPerWorker < 1 {
		return NewAppError("CONFIG_ERROR", "pages_per_worker must be at least 1", ErrInvalidInput)
	}
	if c.Parse.AbsentGrade != "" && c.Parse.AbsentGrade != constants.GradeFail {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("absent_grade must be empty or %q", constants.GradeFail), ErrInvalidInput)
	}
	if c.Output.Dir == "" {
		return NewAppError("CONFIG_ERROR", "output_dir is required", ErrInvalidInput)
	}
	return nil
}
