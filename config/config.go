package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File names kept inside the output directory.
const (
	SessionFileName = "session.json"
	TagsFileName    = "tags.txt"
)

// prefixPattern restricts the rename prefix to characters safe in file names.
var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Config holds all configuration for the application. Values are layered:
// Default, then an optional YAML file, then .env and TAGGER_* variables, then
// command line flags.
type Config struct {
	InputDir         string   `yaml:"input_dir"`
	OutputDir        string   `yaml:"output_dir"`
	Prefix           string   `yaml:"prefix"`
	Resume           bool     `yaml:"resume"`
	Verbose          bool     `yaml:"verbose"`
	AutoSave         int      `yaml:"auto_save"`
	Host             string   `yaml:"host"`
	Port             int      `yaml:"port"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	HeartbeatTimeout int      `yaml:"heartbeat_timeout"`
	ThumbnailSize    int      `yaml:"thumbnail_size"`
	LogLevel         string   `yaml:"log_level"`
	Environment      string   `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:        "output",
		Prefix:           "img",
		AutoSave:         60,
		Host:             "127.0.0.1",
		Port:             8000,
		HeartbeatTimeout: 90,
		ThumbnailSize:    320,
		LogLevel:         "info",
		Environment:      "development",
	}
}

// LoadFile overlays the YAML file at path onto cfg. Unknown keys are rejected.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays environment variables onto cfg. Outside production the
// given .env files (default ".env") are loaded first; a missing file is not
// an error. Variables already set in the environment win over .env values.
func LoadEnv(cfg *Config, files ...string) error {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	cfg.Environment = env

	if env != "production" {
		if len(files) == 0 {
			files = []string{".env"}
		}
		for _, f := range files {
			if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	var errs []error
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", name, v))
			return
		}
		*dst = n
	}
	flag := func(name string, dst *bool) {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a boolean", name, v))
			return
		}
		*dst = b
	}

	str("TAGGER_INPUT_DIR", &cfg.InputDir)
	str("TAGGER_OUTPUT_DIR", &cfg.OutputDir)
	str("TAGGER_PREFIX", &cfg.Prefix)
	flag("TAGGER_RESUME", &cfg.Resume)
	flag("TAGGER_VERBOSE", &cfg.Verbose)
	num("TAGGER_AUTO_SAVE", &cfg.AutoSave)
	str("TAGGER_HOST", &cfg.Host)
	num("TAGGER_PORT", &cfg.Port)
	num("TAGGER_HEARTBEAT_TIMEOUT", &cfg.HeartbeatTimeout)
	num("TAGGER_THUMBNAIL_SIZE", &cfg.ThumbnailSize)
	str("LOG_LEVEL", &cfg.LogLevel)
	if v := os.Getenv("TAGGER_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the values that cannot be repaired silently.
func (c Config) Validate() error {
	var errs []error
	if c.InputDir == "" {
		errs = append(errs, errors.New("input directory is required"))
	} else if info, err := os.Stat(c.InputDir); err != nil {
		errs = append(errs, fmt.Errorf("input directory %s: %w", c.InputDir, err))
	} else if !info.IsDir() {
		errs = append(errs, fmt.Errorf("input directory %s is not a directory", c.InputDir))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if !prefixPattern.MatchString(c.Prefix) {
		errs = append(errs, fmt.Errorf("prefix %q must start with a letter or digit and contain only letters, digits, '-' and '_'", c.Prefix))
	}
	if c.AutoSave < 1 {
		errs = append(errs, fmt.Errorf("auto-save interval must be at least 1 second, got %d", c.AutoSave))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.HeartbeatTimeout < 1 {
		errs = append(errs, fmt.Errorf("heartbeat timeout must be at least 1 second, got %d", c.HeartbeatTimeout))
	}
	if c.ThumbnailSize < 16 || c.ThumbnailSize > 2048 {
		errs = append(errs, fmt.Errorf("thumbnail size %d must be between 16 and 2048", c.ThumbnailSize))
	}
	return errors.Join(errs...)
}

// ResolvedOutputDir returns the output directory, resolving a relative path
// against the input directory.
func (c Config) ResolvedOutputDir() string {
	if filepath.IsAbs(c.OutputDir) {
		return filepath.Clean(c.OutputDir)
	}
	return filepath.Join(c.InputDir, c.OutputDir)
}

// SessionPath is the session checkpoint file.
func (c Config) SessionPath() string {
	return filepath.Join(c.ResolvedOutputDir(), SessionFileName)
}

// TagsPath is the master tag list file.
func (c Config) TagsPath() string {
	return filepath.Join(c.ResolvedOutputDir(), TagsFileName)
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) AutoSaveInterval() time.Duration {
	return time.Duration(c.AutoSave) * time.Second
}

func (c Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatTimeout) * time.Second
}
