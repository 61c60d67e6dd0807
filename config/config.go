// Package config provides YAML configuration parsing for hoteldash.
//
// This package enables running the dashboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Hotel Dashboard
//	port: 8080
//	poll_on_mount: true
//
//	stats:
//	  url: http://stats:8100/stats
//
//	event_stats:
//	  url: http://events:8120/event_stats
//	  interval: 5s
//
//	audit:
//	  base_url: ${AUDIT_URL:-http://audit:8110}
//	  endpoints: [hotel_room, hotel_activity]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort = 8080

	minInterval = time.Second
	maxInterval = time.Hour
	minTimeout  = time.Second

	// default poll periods, used to check a timeout against the interval
	defaultStatsInterval = 2 * time.Second
	defaultAuditInterval = 4 * time.Second
)

// Config is the root configuration structure for hoteldash.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "Hotel Dashboard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// PollOnMount makes every panel poll as soon as it starts instead of
	// after its first interval. Defaults to true.
	PollOnMount *bool `yaml:"poll_on_mount"`

	// Stats configures the aggregate stats panel. Omit to disable it.
	Stats *PanelConfig `yaml:"stats"`

	// EventStats configures the event counts panel. Omit to disable it.
	EventStats *PanelConfig `yaml:"event_stats"`

	// Audit configures one audit panel per endpoint. Omit to disable them.
	Audit *AuditConfig `yaml:"audit"`
}

// PanelConfig defines a panel polling a fixed URL.
type PanelConfig struct {
	// Name overrides the panel's default name.
	Name string `yaml:"name"`

	// URL is the full endpoint URL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Interval is the poll period. Defaults to 2s. Must be between 1s and 1h.
	Interval Duration `yaml:"interval"`

	// Timeout is the per-request timeout. No timeout if unset.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// AuditConfig defines the audit panels, one per endpoint name.
type AuditConfig struct {
	// BaseURL is the audit service URL; each panel requests
	// {base_url}/{endpoint}?index={n}.
	// Supports environment variable substitution.
	BaseURL string `yaml:"base_url"`

	// Endpoints are the audited endpoint names, each a single path segment.
	Endpoints []string `yaml:"endpoints"`

	// Interval is the poll period. Defaults to 4s. Must be between 1s and 1h.
	Interval Duration `yaml:"interval"`

	// Timeout is the per-request timeout. No timeout if unset.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	Headers map[string]string `yaml:"headers"`
}

// PollOnMountEnabled reports the effective poll_on_mount setting.
func (c *Config) PollOnMountEnabled() bool {
	return c.PollOnMount == nil || *c.PollOnMount
}

// PanelCount returns the number of panels the config describes.
func (c *Config) PanelCount() int {
	n := 0
	if c.Stats != nil {
		n++
	}
	if c.EventStats != nil {
		n++
	}
	if c.Audit != nil {
		n += len(c.Audit.Endpoints)
	}
	return n
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
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
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""
		defaultVal := submatches[3]

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Unknown keys are rejected. Environment variables are expanded in URLs
// and header values. Port defaults to 8080.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.Stats != nil {
		if err := c.Stats.expandAndValidate("stats", defaultStatsInterval); err != nil {
			return err
		}
	}
	if c.EventStats != nil {
		if err := c.EventStats.expandAndValidate("event_stats", defaultStatsInterval); err != nil {
			return err
		}
	}
	if c.Audit != nil {
		if err := c.Audit.expandAndValidate(); err != nil {
			return err
		}
	}

	if c.PanelCount() == 0 {
		return errors.New("at least one of stats, event_stats or audit must be defined")
	}

	names := make(map[string]string)
	for _, n := range c.panelNames() {
		if prev, dup := names[n.name]; dup {
			return fmt.Errorf("%s: panel name %q already used by %s", n.section, n.name, prev)
		}
		names[n.name] = n.section
	}

	return nil
}

type sectionName struct {
	section string
	name    string
}

// panelNames lists the effective panel names, matching the SDK defaults.
func (c *Config) panelNames() []sectionName {
	var out []sectionName
	if c.Stats != nil {
		out = append(out, sectionName{"stats", nameOr(c.Stats.Name, "stats")})
	}
	if c.EventStats != nil {
		out = append(out, sectionName{"event_stats", nameOr(c.EventStats.Name, "event_stats")})
	}
	if c.Audit != nil {
		for _, ep := range c.Audit.Endpoints {
			out = append(out, sectionName{"audit", "audit-" + ep})
		}
	}
	return out
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func (p *PanelConfig) expandAndValidate(section string, defaultInterval time.Duration) error {
	if p.URL == "" {
		return fmt.Errorf("%s: url is required", section)
	}
	expanded, err := expandEnvVars(p.URL)
	if err != nil {
		return fmt.Errorf("%s: url: %w", section, err)
	}
	p.URL = expanded
	if err := validateURL(p.URL); err != nil {
		return fmt.Errorf("%s: %w", section, err)
	}

	if strings.ContainsAny(p.Name, " \t\r\n") {
		return fmt.Errorf("%s: name %q must not contain whitespace", section, p.Name)
	}

	if err := expandHeaders(p.Headers, section); err != nil {
		return err
	}
	return validateTiming(section, p.Interval, p.Timeout, defaultInterval)
}

func (a *AuditConfig) expandAndValidate() error {
	const section = "audit"

	if a.BaseURL == "" {
		return fmt.Errorf("%s: base_url is required", section)
	}
	expanded, err := expandEnvVars(a.BaseURL)
	if err != nil {
		return fmt.Errorf("%s: base_url: %w", section, err)
	}
	a.BaseURL = expanded
	if err := validateURL(a.BaseURL); err != nil {
		return fmt.Errorf("%s: %w", section, err)
	}
	if strings.ContainsAny(a.BaseURL, "?#") {
		return fmt.Errorf("%s: base_url must not have a query or fragment", section)
	}

	if len(a.Endpoints) == 0 {
		return fmt.Errorf("%s: at least one endpoint is required", section)
	}
	seen := make(map[string]struct{}, len(a.Endpoints))
	for i, ep := range a.Endpoints {
		if strings.TrimSpace(ep) == "" {
			return fmt.Errorf("%s: endpoints[%d]: name is required", section, i)
		}
		if strings.ContainsAny(ep, "/?# ") {
			return fmt.Errorf("%s: endpoints[%d]: %q must be a single path segment", section, i, ep)
		}
		if _, dup := seen[ep]; dup {
			return fmt.Errorf("%s: endpoints[%d]: duplicate endpoint %q", section, i, ep)
		}
		seen[ep] = struct{}{}
	}

	if err := expandHeaders(a.Headers, section); err != nil {
		return err
	}
	return validateTiming(section, a.Interval, a.Timeout, defaultAuditInterval)
}

func validateURL(raw string) error {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return errors.New("url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("url must have a host")
	}
	return nil
}

func expandHeaders(headers map[string]string, section string) error {
	for k, v := range headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("%s: headers[%s]: %w", section, k, err)
		}
		headers[k] = expanded
	}
	return nil
}

func validateTiming(section string, interval, timeout Duration, defaultInterval time.Duration) error {
	effective := defaultInterval
	if interval != 0 {
		if interval.Duration() < minInterval {
			return fmt.Errorf("%s: interval must be at least 1s, got %s", section, interval.Duration())
		}
		if interval.Duration() > maxInterval {
			return fmt.Errorf("%s: interval must not exceed 1h, got %s", section, interval.Duration())
		}
		effective = interval.Duration()
	}

	if timeout != 0 {
		if timeout.Duration() < minTimeout {
			return fmt.Errorf("%s: timeout must be at least 1s if specified, got %s", section, timeout.Duration())
		}
		if timeout.Duration() > effective {
			return fmt.Errorf("%s: timeout %s must not exceed interval %s", section, timeout.Duration(), effective)
		}
	}
	return nil
}
