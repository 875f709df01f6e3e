// Package config defines the formatter's configuration surface: a
// YAML-backed struct covering indentation, line length, and per-rule
// settings, plus validation that turns malformed values into wrapped
// errors instead of silent defaults.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// systemLineEnding is the platform line terminator LineEndingSystem
// resolves to.
var systemLineEnding = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// IndentationType selects how indentation is rendered and validated.
type IndentationType string

const (
	IndentSpaces IndentationType = "spaces"
	IndentTabs   IndentationType = "tabs"
	IndentMixed  IndentationType = "mixed"
)

// LineEnding selects the line terminator the rewriter emits.
type LineEnding string

const (
	LineEndingLF     LineEnding = "lf"
	LineEndingCRLF   LineEnding = "crlf"
	LineEndingCR     LineEnding = "cr"
	LineEndingSystem LineEnding = "system"
)

// Terminator returns the literal bytes LineEnding resolves to, resolving
// LineEndingSystem against the running platform's convention.
func (le LineEnding) Terminator() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	case LineEndingSystem:
		return systemLineEnding
	default:
		return "\n"
	}
}

// validCharsets is the set of charset names the engine accepts. There is
// no charset-name validator library anywhere in the example pack (the
// only IANA-name matcher in the Go ecosystem, golang.org/x/text's
// encoding/ianaindex, is not a dependency of any teacher or sibling repo),
// so this is a small literal allow-list rather than a general IANA lookup.
var validCharsets = map[string]bool{
	"UTF-8":       true,
	"UTF-16":      true,
	"UTF-16BE":    true,
	"UTF-16LE":    true,
	"US-ASCII":    true,
	"ISO-8859-1":  true,
	"WINDOWS-1252": true,
}

// Config is the merged configuration value the engine consumes. It never
// performs file discovery itself: assembling one from a project's
// directory structure is a caller concern.
type Config struct {
	IndentationType        IndentationType   `yaml:"indentationType"`
	IndentationSize        int               `yaml:"indentationSize"`
	TabWidth               int               `yaml:"tabWidth"`
	MaxLineLength          int               `yaml:"maxLineLength"`
	LineEnding             LineEnding        `yaml:"lineEnding"`
	Charset                string            `yaml:"charset"`
	InsertFinalNewline     bool              `yaml:"insertFinalNewline"`
	TrimTrailingWhitespace bool              `yaml:"trimTrailingWhitespace"`
	Rules                  map[string]RuleConfig `yaml:"rules"`
}

// RuleConfig is the per-rule subsection of Config: whether the rule runs
// at all, its severity, and free-form options the rule itself interprets.
type RuleConfig struct {
	Enabled  bool                   `yaml:"enabled"`
	Severity string                 `yaml:"severity"`
	Options  map[string]interface{} `yaml:"options,omitempty"`
}

// Default returns the formatter's built-in configuration.
func Default() *Config {
	return &Config{
		IndentationType:        IndentSpaces,
		IndentationSize:        4,
		TabWidth:               4,
		MaxLineLength:          120,
		LineEnding:             LineEndingLF,
		Charset:                "UTF-8",
		InsertFinalNewline:     true,
		TrimTrailingWhitespace: true,
		Rules: map[string]RuleConfig{
			"LineLength":         {Enabled: true, Severity: "warning"},
			"ImportOrganization": {Enabled: true, Severity: "warning"},
			"Indentation":        {Enabled: true, Severity: "warning"},
			"TrailingWhitespace": {Enabled: true, Severity: "warning"},
			"FinalNewline":       {Enabled: true, Severity: "warning"},
		},
	}
}

// Error wraps a configuration validation failure with the field that
// caused it.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Load parses YAML bytes into a Config seeded with Default values, then
// validates the result.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the config back to YAML, for example for round-trip
// tests.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate rejects configurations that the rest of the engine cannot act
// on safely.
func (c *Config) Validate() error {
	switch c.IndentationType {
	case IndentSpaces, IndentTabs, IndentMixed:
	default:
		return &Error{Field: "indentationType", Message: fmt.Sprintf("unknown value %q", c.IndentationType)}
	}
	if c.IndentationSize < 1 || c.IndentationSize > 16 {
		return &Error{Field: "indentationSize", Message: "must be in [1,16]"}
	}
	if c.IndentationType == IndentTabs && c.IndentationSize != 1 {
		return &Error{Field: "indentationSize", Message: "must be 1 when indentationType is tabs"}
	}
	if c.TabWidth < 1 || c.TabWidth > 16 {
		return &Error{Field: "tabWidth", Message: "must be in [1,16]"}
	}
	if c.MaxLineLength < 40 || c.MaxLineLength > 1000 {
		return &Error{Field: "maxLineLength", Message: "must be in [40,1000]"}
	}
	switch c.LineEnding {
	case LineEndingLF, LineEndingCRLF, LineEndingCR, LineEndingSystem:
	default:
		return &Error{Field: "lineEnding", Message: fmt.Sprintf("unknown value %q", c.LineEnding)}
	}
	if !validCharsets[strings.ToUpper(c.Charset)] {
		return &Error{Field: "charset", Message: fmt.Sprintf("unknown or unsupported charset %q", c.Charset)}
	}
	for name, rc := range c.Rules {
		switch rc.Severity {
		case "", "warning", "error":
		default:
			return &Error{Field: "rules." + name + ".severity", Message: fmt.Sprintf("unknown severity %q", rc.Severity)}
		}
	}
	return nil
}

// RuleEnabled reports whether the named rule should run, defaulting to
// enabled for rules with no explicit entry.
func (c *Config) RuleEnabled(name string) bool {
	rc, ok := c.Rules[name]
	if !ok {
		return true
	}
	return rc.Enabled
}

// RuleSeverity returns the configured severity for name, defaulting to
// "warning".
func (c *Config) RuleSeverity(name string) string {
	rc, ok := c.Rules[name]
	if !ok || rc.Severity == "" {
		return "warning"
	}
	return rc.Severity
}
