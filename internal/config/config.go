package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/sitewatch/internal/domain"
)

// Config is the fully resolved check configuration. It is built once by the
// CLI (defaults, then config file, then flags) and treated as immutable by
// everything downstream.
type Config struct {
	Workers      int                  // worker pool ceiling; clamped per round to the URL count
	Timeout      time.Duration        // per-attempt HTTP timeout
	Retries      int                  // extra attempts on transport errors
	Period       time.Duration        // 0 means single run
	HeaderChecks []domain.HeaderCheck // exact-match response header requirements, in order
	URLs         []string

	LogDir       string // zap/lumberjack output directory
	AdminAddr    string // empty disables the admin endpoint
	AdminKey     string // optional key guarding POST /api/stop
	SlackWebhook string // optional down/recovery notifications
}

// Default returns the baseline configuration before file and flag overrides.
func Default() Config {
	return Config{
		Workers: 50,
		Timeout: 5000 * time.Millisecond,
		Retries: 0,
		Period:  0,
		LogDir:  "logs",
	}
}

// Validate rejects a configuration before any round starts. All independent
// problems are reported together.
func (c Config) Validate() error {
	var err error
	if len(c.URLs) == 0 {
		err = multierr.Append(err, fmt.Errorf("no URLs provided: pass them as args, via --file, or in the config file"))
	}
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Retries < 0 {
		err = multierr.Append(err, fmt.Errorf("retries must be >= 0, got %d", c.Retries))
	}
	if c.Period < 0 {
		err = multierr.Append(err, fmt.Errorf("period must be >= 0, got %s", c.Period))
	}
	for _, hc := range c.HeaderChecks {
		if hc.Name == "" {
			err = multierr.Append(err, fmt.Errorf("header check with empty name"))
		}
	}
	return err
}

// ParseHeader parses a KEY=VALUE header requirement. An empty value is
// allowed; an empty key is not.
func ParseHeader(s string) (domain.HeaderCheck, error) {
	k, v, found := strings.Cut(s, "=")
	if !found {
		return domain.HeaderCheck{}, fmt.Errorf("header %q: want KEY=VALUE", s)
	}
	k = strings.TrimSpace(k)
	if k == "" {
		return domain.HeaderCheck{}, fmt.Errorf("header %q: empty key", s)
	}
	return domain.HeaderCheck{Name: k, Value: strings.TrimSpace(v)}, nil
}

// ReadURLFile loads newline-delimited URLs. Blank lines and lines starting
// with '#' are ignored.
func ReadURLFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var urls []string
	for _, line := range strings.Split(string(content), "\n") {
		u := strings.TrimSpace(line)
		if u == "" || strings.HasPrefix(u, "#") {
			continue
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// Duration wraps time.Duration for YAML unmarshalling ("5s", "500ms").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// fileConfig is the YAML shape. Headers are a list of KEY=VALUE strings so
// the configured order is preserved.
type fileConfig struct {
	Workers      *int     `yaml:"workers"`
	Timeout      Duration `yaml:"timeout"`
	Retries      *int     `yaml:"retries"`
	Period       Duration `yaml:"period"`
	Headers      []string `yaml:"headers"`
	URLs         []string `yaml:"urls"`
	URLFile      string   `yaml:"url_file"`
	LogDir       string   `yaml:"log_dir"`
	AdminAddr    string   `yaml:"admin_addr"`
	AdminKey     string   `yaml:"admin_key"`
	SlackWebhook string   `yaml:"slack_webhook"`
}

// LoadFile merges a YAML config file into cfg and returns the result. Only
// fields present in the file override.
func LoadFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.Timeout != 0 {
		cfg.Timeout = fc.Timeout.Duration()
	}
	if fc.Retries != nil {
		cfg.Retries = *fc.Retries
	}
	if fc.Period != 0 {
		cfg.Period = fc.Period.Duration()
	}
	for _, h := range fc.Headers {
		hc, err := ParseHeader(h)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		cfg.HeaderChecks = append(cfg.HeaderChecks, hc)
	}
	cfg.URLs = append(cfg.URLs, fc.URLs...)
	if fc.URLFile != "" {
		urls, err := ReadURLFile(fc.URLFile)
		if err != nil {
			return cfg, err
		}
		cfg.URLs = append(cfg.URLs, urls...)
	}
	if fc.LogDir != "" {
		cfg.LogDir = fc.LogDir
	}
	if fc.AdminAddr != "" {
		cfg.AdminAddr = fc.AdminAddr
	}
	if fc.AdminKey != "" {
		cfg.AdminKey = fc.AdminKey
	}
	if fc.SlackWebhook != "" {
		cfg.SlackWebhook = fc.SlackWebhook
	}
	return cfg, nil
}
