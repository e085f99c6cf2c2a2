package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/bind"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "bindery.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "bindery.yaml"

	// DefaultPort is the default live server port.
	DefaultPort = 3000

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultIndent is the default pretty-print indent.
	DefaultIndent = "  "

	// DefaultReadTimeout is the default HTTP read timeout.
	DefaultReadTimeout = "10s"
)

// Config represents a complete bindery.json or bindery.yaml file.
type Config struct {
	// Binding holds the directive grammar and scope options.
	Binding BindingConfig `json:"binding,omitempty" yaml:"binding,omitempty"`

	// Render controls HTML output.
	Render RenderConfig `json:"render,omitempty" yaml:"render,omitempty"`

	// Serve configures the live document server.
	Serve ServeConfig `json:"serve,omitempty" yaml:"serve,omitempty"`

	// Publish configures snapshot publishing.
	Publish PublishConfig `json:"publish,omitempty" yaml:"publish,omitempty"`

	configPath string
}

// BindingConfig mirrors the binding option keys.
type BindingConfig struct {
	Suffix SuffixConfig    `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Attr   AttrConfig      `json:"attr,omitempty" yaml:"attr,omitempty"`
	Sep    SeparatorConfig `json:"sep,omitempty" yaml:"sep,omitempty"`

	// Self is the keyword for a scope's whole value.
	Self string `json:"self,omitempty" yaml:"self,omitempty"`

	// Index exposes each list item's position as "index".
	Index bool `json:"index,omitempty" yaml:"index,omitempty"`
}

// SuffixConfig holds the member target suffixes.
type SuffixConfig struct {
	Attr string `json:"attr,omitempty" yaml:"attr,omitempty"`
	Prop string `json:"prop,omitempty" yaml:"prop,omitempty"`
}

// AttrConfig holds the reserved directive attribute names.
type AttrConfig struct {
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Ref    string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Iter   string `json:"iter,omitempty" yaml:"iter,omitempty"`
	Closed string `json:"closed,omitempty" yaml:"closed,omitempty"`
}

// SeparatorConfig holds the directive separators. A blank ref separator
// splits on whitespace.
type SeparatorConfig struct {
	Ref        string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Multivalue string `json:"multivalue,omitempty" yaml:"multivalue,omitempty"`
	Calc       string `json:"calc,omitempty" yaml:"calc,omitempty"`
}

// RenderConfig controls HTML output.
type RenderConfig struct {
	Pretty  bool   `json:"pretty,omitempty" yaml:"pretty,omitempty"`
	Indent  string `json:"indent,omitempty" yaml:"indent,omitempty"`
	Doctype bool   `json:"doctype,omitempty" yaml:"doctype,omitempty"`

	// StripDirectives omits binding attributes from the output.
	StripDirectives bool `json:"stripDirectives,omitempty" yaml:"stripDirectives,omitempty"`
}

// ServeConfig configures the live document server.
type ServeConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// ReadTimeout is a duration string such as "10s".
	ReadTimeout string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`

	// Template and Data are the default document and data paths.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	Data     string `json:"data,omitempty" yaml:"data,omitempty"`
}

// PublishConfig configures snapshot publishing.
type PublishConfig struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Dir publishes to a local directory instead of S3.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads bindery.json, or else bindery.yaml, from dir.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("B300").
		WithDetail("No " + JSONFileName + " or " + YAMLFileName + " found in " + dir)
}

// LoadFile reads configuration from path. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("B300").WithDetail(path).Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("B300").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file syntax")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Exists reports whether dir holds a configuration file.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// SaveTo writes the configuration to path in the format its extension
// selects.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("B300").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("B300").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := bind.DefaultOptions()
	b := &c.Binding
	if b.Suffix.Attr == "" {
		b.Suffix.Attr = d.Suffix.Attr
	}
	if b.Suffix.Prop == "" {
		b.Suffix.Prop = d.Suffix.Prop
	}
	if b.Attr.Text == "" {
		b.Attr.Text = d.Attr.Text
	}
	if b.Attr.Ref == "" {
		b.Attr.Ref = d.Attr.Ref
	}
	if b.Attr.Iter == "" {
		b.Attr.Iter = d.Attr.Iter
	}
	if b.Attr.Closed == "" {
		b.Attr.Closed = d.Attr.Closed
	}
	if b.Sep.Ref == "" {
		b.Sep.Ref = d.Sep.Ref
	}
	if b.Sep.Multivalue == "" {
		b.Sep.Multivalue = d.Sep.Multi
	}
	if b.Sep.Calc == "" {
		b.Sep.Calc = d.Sep.Calc
	}
	if b.Self == "" {
		b.Self = d.Self
	}

	if c.Render.Indent == "" {
		c.Render.Indent = DefaultIndent
	}

	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.ReadTimeout == "" {
		c.Serve.ReadTimeout = DefaultReadTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New("B301").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Serve.Port))
	}
	if _, err := time.ParseDuration(c.Serve.ReadTimeout); err != nil {
		return errors.New("B300").
			WithDetail("serve.readTimeout: " + err.Error())
	}

	b := c.Binding
	names := []string{b.Attr.Text, b.Attr.Ref, b.Attr.Iter, b.Attr.Closed}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" || seen[n] {
			return errors.New("B302").WithDetail("attr names: " + strings.Join(names, ", "))
		}
		seen[n] = true
	}
	if b.Suffix.Attr == b.Suffix.Prop {
		return errors.New("B302").WithDetail("suffix.attr and suffix.prop are both " + strconv.Quote(b.Suffix.Attr))
	}
	if strings.TrimSpace(b.Sep.Multivalue) == "" || strings.TrimSpace(b.Sep.Calc) == "" {
		return errors.New("B302").WithDetail("sep.multivalue and sep.calc must not be blank")
	}
	if b.Sep.Multivalue == b.Sep.Calc || b.Sep.Ref == b.Sep.Multivalue || b.Sep.Ref == b.Sep.Calc {
		return errors.New("B302").WithDetail("separators must be distinct")
	}
	return nil
}

// Address returns the host:port the live server listens on.
func (c *Config) Address() string {
	return c.Serve.Host + ":" + strconv.Itoa(c.Serve.Port)
}

// ReadTimeout returns the parsed read timeout, or the default when it
// does not parse.
func (c *Config) ReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Serve.ReadTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultReadTimeout)
	}
	return d
}

// BindOptions converts the binding section to bind options. extra options
// are applied last.
func (c *Config) BindOptions(extra ...bind.Option) []bind.Option {
	b := c.Binding
	opts := []bind.Option{
		bind.WithSuffix(b.Suffix.Attr, b.Suffix.Prop),
		bind.WithNames(bind.Names{
			Text:   b.Attr.Text,
			Ref:    b.Attr.Ref,
			Iter:   b.Attr.Iter,
			Closed: b.Attr.Closed,
		}),
		bind.WithGrammar(bind.Separators{
			Ref:   b.Sep.Ref,
			Multi: b.Sep.Multivalue,
			Calc:  b.Sep.Calc,
		}),
		bind.WithSelf(b.Self),
		bind.WithIndex(b.Index),
	}
	return append(opts, extra...)
}
