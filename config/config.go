// Copyright © 2024 The ELPS authors

// Package config loads the engine's run options (spec §6): which files to
// analyze, the project root, per-diagnostic severity overrides, ignored
// codes, the parser mode, and whether to watch for changes. Loading
// layers flags over environment variables over an optional config file,
// the same viper wiring the teacher's cmd package uses for its own
// ".elps" config file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/bsc-analyze/bsc/diagnostic"
	"github.com/bsc-analyze/bsc/parser"
)

// Options is the full set of run options spec §6 names.
type Options struct {
	Files                       []string
	RootDir                     string
	ParseMode                   parser.Mode
	Watch                       bool
	DiagnosticSeverityOverrides map[diagnostic.Code]diagnostic.Severity
	IgnoreErrorCodes            map[diagnostic.Code]bool
}

// Option is a functional option applied after the layered load, for
// callers (tests, the cmd package) that want to override a field without
// re-running viper.
type Option func(*Options)

// WithFiles overrides the resolved file list.
func WithFiles(files []string) Option {
	return func(o *Options) { o.Files = files }
}

// WithParseMode overrides the resolved parser mode.
func WithParseMode(mode parser.Mode) Option {
	return func(o *Options) { o.ParseMode = mode }
}

// Load reads options from cfgFile (if non-empty), the environment
// (BSC_-prefixed, matching viper.AutomaticEnv's key mapping), and finally
// any command-line-equivalent opts, in that increasing-precedence order —
// mirroring the teacher's initConfig's file-then-env layering, with opts
// standing in for cobra flags.
func Load(cfgFile string, opts ...Option) (*Options, error) {
	v := viper.New()
	v.SetDefault("rootDir", ".")
	v.SetDefault("parseMode", "baseline")
	v.SetDefault("watch", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	}
	v.SetEnvPrefix("bsc")
	v.AutomaticEnv()

	mode, err := parseMode(v.GetString("parseMode"))
	if err != nil {
		return nil, err
	}

	overrides, err := parseSeverityOverrides(v.GetStringMapString("diagnosticSeverityOverrides"))
	if err != nil {
		return nil, err
	}

	o := &Options{
		Files:                       v.GetStringSlice("files"),
		RootDir:                     v.GetString("rootDir"),
		ParseMode:                   mode,
		Watch:                       v.GetBool("watch"),
		DiagnosticSeverityOverrides: overrides,
		IgnoreErrorCodes:            parseIgnoreCodes(v.GetStringSlice("ignoreErrorCodes")),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func parseMode(s string) (parser.Mode, error) {
	switch strings.ToLower(s) {
	case "", "baseline":
		return parser.Baseline, nil
	case "superset":
		return parser.Superset, nil
	default:
		return parser.Baseline, fmt.Errorf("unknown parseMode %q", s)
	}
}

// parseSeverityOverrides turns a {"1004": "warning"} style map (diagnostic
// code → severity name) into the typed form Diagnostic consumers use.
func parseSeverityOverrides(raw map[string]string) (map[diagnostic.Code]diagnostic.Severity, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[diagnostic.Code]diagnostic.Severity, len(raw))
	for k, v := range raw {
		code, err := parseCode(k)
		if err != nil {
			return nil, err
		}
		sev, err := parseSeverity(v)
		if err != nil {
			return nil, err
		}
		out[code] = sev
	}
	return out, nil
}

func parseIgnoreCodes(raw []string) map[diagnostic.Code]bool {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[diagnostic.Code]bool, len(raw))
	for _, s := range raw {
		if code, err := parseCode(s); err == nil {
			out[code] = true
		}
	}
	return out
}

func parseCode(s string) (diagnostic.Code, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid diagnostic code %q: %w", s, err)
	}
	return diagnostic.Code(n), nil
}

func parseSeverity(s string) (diagnostic.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hint":
		return diagnostic.SeverityHint, nil
	case "info":
		return diagnostic.SeverityInfo, nil
	case "warning":
		return diagnostic.SeverityWarning, nil
	case "error":
		return diagnostic.SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// DefaultRootDir returns the process's working directory, or "." when it
// cannot be determined.
func DefaultRootDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
