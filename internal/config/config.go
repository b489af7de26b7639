package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"task-manager/internal/domain"
)

// Storage backends
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backends lists every supported storage backend
var Backends = []string{BackendSQLite, BackendFile, BackendPostgres, BackendMemory}

// Config holds all configuration options for the task manager
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Validation  ValidationConfig  `yaml:"validation"`
	Display     DisplayConfig     `yaml:"display"`
	View        ViewConfig        `yaml:"view"`
	Application ApplicationConfig `yaml:"application"`
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	Backend        string        `yaml:"backend" env:"TM_STORE"`
	Dir            string        `yaml:"dir" env:"TM_DATA_DIR"`
	Filename       string        `yaml:"filename" env:"TM_DATA_FILE"`
	Slot           string        `yaml:"slot" env:"TM_SLOT"`
	PostgresDSN    string        `yaml:"postgres_dsn" env:"TM_POSTGRES_DSN"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"TM_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"TM_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"TM_DIR_PERMISSIONS"`
}

// ValidationConfig holds input validation limits
type ValidationConfig struct {
	TitleMinLength       int `yaml:"title_min_length" env:"TM_VALIDATION_TITLE_MIN"`
	TitleMaxLength       int `yaml:"title_max_length" env:"TM_VALIDATION_TITLE_MAX"`
	DescriptionMaxLength int `yaml:"description_max_length" env:"TM_VALIDATION_DESCRIPTION_MAX"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat string `yaml:"date_format" env:"TM_DISPLAY_DATE_FORMAT"`
	Color      bool   `yaml:"color" env:"TM_DISPLAY_COLOR"`
	Locale     string `yaml:"locale" env:"TM_DISPLAY_LOCALE"`
}

// ViewConfig holds the default list ordering
type ViewConfig struct {
	DefaultSort      string `yaml:"default_sort" env:"TM_VIEW_SORT"`
	DefaultAscending bool   `yaml:"default_ascending" env:"TM_VIEW_ASCENDING"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"TM_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"TM_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(homeDir, ".tm")

	return &Config{
		Storage: StorageConfig{
			Backend:        BackendSQLite,
			Dir:            defaultDataDir,
			Slot:           "tasks",
			QueryTimeout:   5 * time.Second,
			WriteTimeout:   10 * time.Second,
			DirPermissions: 0755,
		},
		Validation: ValidationConfig{
			TitleMinLength:       1,
			TitleMaxLength:       200,
			DescriptionMaxLength: 2000,
		},
		Display: DisplayConfig{
			DateFormat: "Jan 2, 2006",
			Color:      true,
			Locale:     "en",
		},
		View: ViewConfig{
			DefaultSort:      string(domain.SortByCreatedAt),
			DefaultAscending: false,
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
			Verbose: false,
		},
	}
}

// GetDataPath returns the file the sqlite or file backend writes to.
// Without an explicit filename, sqlite uses tm.db and the file backend <slot>.json.
func (c *Config) GetDataPath() string {
	filename := c.Storage.Filename
	if filename == "" {
		if c.Storage.Backend == BackendFile {
			filename = c.Storage.Slot + ".json"
		} else {
			filename = "tm.db"
		}
	}
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(c.Storage.Dir, filename)
}

// GetQueryTimeout returns the storage read timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Storage.QueryTimeout
}

// GetWriteTimeout returns the storage write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Storage.WriteTimeout
}

// GetLanguage returns the collation language for title sorting
func (c *Config) GetLanguage() language.Tag {
	tag, err := language.Parse(c.Display.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values are ignored.
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if backend := os.Getenv("TM_STORE"); backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
	if dir := os.Getenv("TM_DATA_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TM_DATA_FILE"); filename != "" {
		c.Storage.Filename = filename
	}
	if slot := os.Getenv("TM_SLOT"); slot != "" {
		c.Storage.Slot = slot
	}
	if dsn := os.Getenv("TM_POSTGRES_DSN"); dsn != "" {
		c.Storage.PostgresDSN = dsn
	}
	if timeout := os.Getenv("TM_QUERY_TIMEOUT"); timeout != "" {
		c.Storage.QueryTimeout = ParseDurationWithFallback(timeout, c.Storage.QueryTimeout)
	}
	if timeout := os.Getenv("TM_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("TM_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Validation configuration
	if minLen := os.Getenv("TM_VALIDATION_TITLE_MIN"); minLen != "" {
		c.Validation.TitleMinLength = ParseIntWithFallback(minLen, c.Validation.TitleMinLength)
	}
	if maxLen := os.Getenv("TM_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}
	if maxLen := os.Getenv("TM_VALIDATION_DESCRIPTION_MAX"); maxLen != "" {
		c.Validation.DescriptionMaxLength = ParseIntWithFallback(maxLen, c.Validation.DescriptionMaxLength)
	}

	// Display configuration
	if format := os.Getenv("TM_DISPLAY_DATE_FORMAT"); format != "" {
		c.Display.DateFormat = format
	}
	if color := os.Getenv("TM_DISPLAY_COLOR"); color != "" {
		c.Display.Color = ParseBoolWithFallback(color, c.Display.Color)
	}
	if locale := os.Getenv("TM_DISPLAY_LOCALE"); locale != "" {
		c.Display.Locale = locale
	}

	// View configuration
	if sort := os.Getenv("TM_VIEW_SORT"); sort != "" {
		c.View.DefaultSort = sort
	}
	if asc := os.Getenv("TM_VIEW_ASCENDING"); asc != "" {
		c.View.DefaultAscending = ParseBoolWithFallback(asc, c.View.DefaultAscending)
	}

	// Application configuration
	if timeout := os.Getenv("TM_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TM_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// Validate validates the configuration and returns the first problem found
func (c *Config) Validate() error {
	// Validate storage configuration
	if !isBackend(c.Storage.Backend) {
		return &ConfigError{Field: "storage.backend", Message: "unknown backend " + strconv.Quote(c.Storage.Backend) + ", want one of " + strings.Join(Backends, ", ")}
	}
	if c.Storage.Slot == "" {
		return &ConfigError{Field: "storage.slot", Message: "slot name cannot be empty"}
	}
	if (c.Storage.Backend == BackendSQLite || c.Storage.Backend == BackendFile) && c.Storage.Dir == "" && !filepath.IsAbs(c.Storage.Filename) {
		return &ConfigError{Field: "storage.dir", Message: "data directory cannot be empty"}
	}
	if c.Storage.Backend == BackendPostgres && c.Storage.PostgresDSN == "" {
		return &ConfigError{Field: "storage.postgres_dsn", Message: "postgres backend needs a DSN"}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate validation configuration
	if c.Validation.TitleMinLength < 1 {
		return &ConfigError{Field: "validation.title_min_length", Message: "title minimum length must be at least 1"}
	}
	if c.Validation.TitleMaxLength < c.Validation.TitleMinLength {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be greater than minimum length"}
	}
	if c.Validation.DescriptionMaxLength < 0 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description maximum length cannot be negative"}
	}

	// Validate display configuration
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}
	if _, err := language.Parse(c.Display.Locale); err != nil {
		return &ConfigError{Field: "display.locale", Message: "invalid locale " + strconv.Quote(c.Display.Locale)}
	}

	// Validate view configuration
	if _, err := domain.ParseSortCriteria(c.View.DefaultSort); err != nil {
		return &ConfigError{Field: "view.default_sort", Message: err.Error()}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

func isBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
