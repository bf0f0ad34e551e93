// Copyright © 2024 The ELPS authors

package cmd

import "os"

// Option configures an exported command factory (AnalyzeCommand,
// LintCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	exit func(int)
}

func newCmdConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{exit: os.Exit}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithExit overrides the function a command calls on a diagnostics-found
// or bad-invocation exit, the same override lsp.Server.exitFn gives test
// code in place of a real process exit.
func WithExit(fn func(int)) Option {
	return func(c *cmdConfig) { c.exit = fn }
}
