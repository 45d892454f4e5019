// Package config holds the runtime options and the TOML/env/CLI loader.
// Precedence is CLI flags > environment (DDCBRIGHT_*) > config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/logging"
)

// Defaults mirror the reference tool's built-in configuration.
const (
	DefaultDevice     = "/dev/i2c-3"
	DefaultRegister   = "0x10"
	DefaultMin        = 0
	DefaultMax        = 100
	DefaultStep       = 5
	DefaultScrollStep = 1
)

// Options is the flat runtime configuration. Field tags drive the
// reflection-based loader: toml paths use dotted sections, env keys get
// the DDCBRIGHT_ prefix.
type Options struct {
	Config string

	Tool     string `toml:"ddc.tool" env:"TOOL"`
	Device   string `toml:"ddc.device" env:"DEVICE"`
	Register string `toml:"ddc.register" env:"REGISTER"`

	Min        int `toml:"range.min" env:"MIN"`
	Max        int `toml:"range.max" env:"MAX"`
	Step       int `toml:"range.step" env:"STEP"`
	ScrollStep int `toml:"range.scroll_step" env:"SCROLL_STEP"`

	LoggingLevel  string `toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `toml:"logging.format" env:"LOGGING_FORMAT"`
}

// NewOptions returns Options populated with the built-in defaults.
func NewOptions() *Options {
	return &Options{
		Device:        DefaultDevice,
		Register:      DefaultRegister,
		Min:           DefaultMin,
		Max:           DefaultMax,
		Step:          DefaultStep,
		ScrollStep:    DefaultScrollStep,
		LoggingLevel:  "info",
		LoggingFormat: "text",
	}
}

// DefaultPath returns the default config file location, or "" when the
// home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ddc-brightness-slider", "config.toml")
}

// Load applies config file values and environment overrides to opts.
// If cmd is provided, flags explicitly set via CLI are not overwritten.
func Load(opts *Options, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()

	changedFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changedFlags[f.Name] = true
			}
		})
	}

	if opts.Config != "" {
		if data, err := os.ReadFile(opts.Config); err == nil {
			var file map[string]any
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse config %s: %w", opts.Config, err)
			}

			for i := 0; i < v.NumField(); i++ {
				field := v.Field(i)
				fieldType := t.Field(i)

				if changedFlags[fieldNameToFlag(fieldType.Name)] {
					continue
				}
				if tomlPath := fieldType.Tag.Get("toml"); tomlPath != "" {
					if value := getNestedValue(file, tomlPath); value != nil {
						setFieldValue(field, value)
					}
				}
			}
		}
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if changedFlags[fieldNameToFlag(fieldType.Name)] {
			continue
		}
		if envKey := fieldType.Tag.Get("env"); envKey != "" {
			if envValue := os.Getenv("DDCBRIGHT_" + envKey); envValue != "" {
				setFieldValueFromString(field, envValue)
			}
		}
	}

	return nil
}

// LoadLogging extracts the logging section from a config file. Keys
// other than level/format are per-module level overrides.
func LoadLogging(configPath string) logging.Config {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}

	if configPath == "" {
		return cfg
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	var raw struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg
	}

	for key, value := range raw.Logging {
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}

	return cfg
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "ScrollStep" -> "scroll-step", "Device" -> "device".
func fieldNameToFlag(fieldName string) string {
	var result []rune
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '-')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// getNestedValue retrieves a value from a nested map using dot notation.
func getNestedValue(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data

	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			return nil
		}
	}
	return nil
}

// setFieldValue sets a field value using reflection.
func setFieldValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, ok := value.(int64); ok {
			field.SetInt(i)
		} else if i, intOk := value.(int); intOk {
			field.SetInt(int64(i))
		}
	}
}

// setFieldValueFromString sets a field value from string (for env vars).
func setFieldValueFromString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(i)
		}
	}
}
