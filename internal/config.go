package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/quire/internal/builder"
	"github.com/starford/quire/internal/compose"
	"github.com/starford/quire/internal/render"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Site     SiteConfig        `yaml:"site"`
	Render   RenderConfig      `yaml:"render"`
	Template TemplateConfig    `yaml:"template"`
	Catalog  CatalogConfig     `yaml:"catalog"`
	Watch    WatchConfig       `yaml:"watch"`
	Auth     AuthConfig        `yaml:"auth"`
	Metrics  MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{
		&c.App, &c.Site, &c.Render, &c.Template, &c.Catalog, &c.Watch, &c.Auth,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SiteConfig locates the posts, the template and the generated output.
type SiteConfig struct {
	PostsDir     string `yaml:"posts_dir"`
	OutputDir    string `yaml:"output_dir"`
	TemplateFile string `yaml:"template_file"`
	IndexFile    string `yaml:"index_file"`
	URLPrefix    string `yaml:"url_prefix"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.PostsDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.TemplateFile, validation.Required),
		validation.Field(&c.IndexFile, validation.Required),
	); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	return nil
}

// Site returns the builder view of the configuration.
func (c *SiteConfig) Site() builder.Site {
	return builder.Site{
		PostsDir:     c.PostsDir,
		OutputDir:    c.OutputDir,
		TemplateFile: c.TemplateFile,
		IndexFile:    c.IndexFile,
		URLPrefix:    c.URLPrefix,
	}
}

// RenderConfig configures Markdown rendering.
type RenderConfig struct {
	Extensions     []string `yaml:"extensions"`
	HighlightStyle string   `yaml:"highlight_style"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Extensions, validation.Each(validation.By(func(v any) error {
			if name, _ := v.(string); !render.KnownExtension(name) {
				return fmt.Errorf("unknown extension %q", v)
			}
			return nil
		}))),
	); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Options returns the renderer options.
func (c *RenderConfig) Options() render.Options {
	return render.Options{Extensions: c.Extensions, HighlightStyle: c.HighlightStyle}
}

// TemplateConfig configures template substitution.
//
// Substitution is "simultaneous" (default) or "sequential".
type TemplateConfig struct {
	Substitution string `yaml:"substitution"`
}

// Validate validates the template configuration.
func (c *TemplateConfig) Validate() error {
	if _, err := compose.ParseMode(c.Substitution); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	return nil
}

// Mode returns the parsed substitution mode.
func (c *TemplateConfig) Mode() compose.Mode {
	m, err := compose.ParseMode(c.Substitution)
	if err != nil {
		return compose.Simultaneous
	}
	return m
}

// CatalogConfig holds the SQLite catalog configuration.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// WatchConfig configures the change watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// AuthConfig holds authentication configuration for the preview API.
//
// Mode controls how authentication is enforced on write routes:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled".
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// MetricsConfig toggles Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Site: SiteConfig{
			PostsDir:     "_posts",
			OutputDir:    "blog",
			TemplateFile: "blog-template.html",
			IndexFile:    "_posts/posts.json",
			URLPrefix:    "blog/",
		},
		Render: RenderConfig{
			HighlightStyle: render.DefaultStyle,
		},
		Template: TemplateConfig{
			Substitution: string(compose.Simultaneous),
		},
		Catalog: CatalogConfig{
			Path: "./quire.db",
		},
		Watch: WatchConfig{
			Debounce: builder.DefaultDebounce,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
