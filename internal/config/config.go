package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Editor  EditorConfig  `yaml:"editor"`
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
	Uploads UploadConfig  `yaml:"uploads"`
	Theme   ThemeConfig   `yaml:"theme"`
}

type SiteConfig struct {
	Name string `yaml:"name" default:"Inkdraft"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0" env:"HOST"`
	Port string `yaml:"port" default:"12600" env:"PORT"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info" env:"LOG_LEVEL"`
}

// EditorConfig holds the knobs of the post editor workflow.
type EditorConfig struct {
	// DraftKey is the base key of the single persisted draft record. The
	// profile id is appended so each profile owns exactly one record.
	DraftKey      string        `yaml:"draft_key" default:"post_editor_draft_v1"`
	AutosaveDelay time.Duration `yaml:"autosave_delay" default:"1500ms"`
	// EmptyDocument is the markup the rich-text surface uses for "no content".
	EmptyDocument  string `yaml:"empty_document" default:"<p><br></p>"`
	WordsPerMinute int    `yaml:"words_per_minute" default:"200"`

	HistoryDelay    time.Duration `yaml:"history_delay" default:"1000ms"`
	HistoryMaxStack int           `yaml:"history_max_stack" default:"100"`
	HistoryUserOnly bool          `yaml:"history_user_only" default:"true"`

	// SessionIdleTimeout closes sessions nobody touched for this long. Zero
	// keeps them until shutdown.
	SessionIdleTimeout   time.Duration `yaml:"session_idle_timeout" default:"30m"`
	SessionSweepInterval time.Duration `yaml:"session_sweep_interval" default:"1m"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" default:"sqlite" env:"STORAGE_DRIVER"`
	Path   string `yaml:"path" default:"./database.db" env:"STORAGE_PATH"`
	Dir    string `yaml:"dir" default:"./drafts" env:"STORAGE_DIR"`

	// Compression is the codec for new sqlite rows, "zstd" or "gzip". Rows
	// written with either stay readable after a switch.
	Compression string `yaml:"compression" default:"zstd" env:"STORAGE_COMPRESSION"`
}

type AIConfig struct {
	Enabled           bool          `yaml:"enabled" default:"true"`
	Provider          string        `yaml:"provider" default:"gemini"`
	Model             string        `yaml:"model" default:"gemini-2.0-flash" env:"GEMINI_MODEL"`
	APIKey            string        `yaml:"-" env:"GEMINI_API_KEY"`
	Timeout           time.Duration `yaml:"timeout" default:"60s"`
	RequestsPerMinute int           `yaml:"requests_per_minute" default:"30"`
	Temperature       float64       `yaml:"temperature" default:"0.7"`
}

type UploadConfig struct {
	Driver    string `yaml:"driver" default:"file" env:"UPLOAD_DRIVER"`
	Dir       string `yaml:"dir" default:"./uploads"`
	URLPrefix string `yaml:"url_prefix" default:"/uploads/"`
	MaxSizeMB int    `yaml:"max_size_mb" default:"10"`

	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" default:"auto" env:"S3_REGION"`
	PublicBaseURL   string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
	AccessKeyID     string `yaml:"-" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"-" env:"S3_SECRET_ACCESS_KEY"`
}

type ThemeConfig struct {
	SyntaxTheme string `yaml:"syntax_theme" default:"gruvbox"`
}

var AppConfig *Config

// LoadConfig reads path into AppConfig. Defaults are applied first, then the
// file (if any), then environment overrides.
func LoadConfig(path string) error {
	config, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = config
	return nil
}

func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return config, nil
}

// Default returns a Config holding only the default values.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int, reflect.Int64:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// MaxSizeBytes is the upload limit in bytes.
func (u UploadConfig) MaxSizeBytes() int64 {
	return int64(u.MaxSizeMB) << 20
}
