package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// defaultConfigFile is read if it exists and no configuration file is given.
const defaultConfigFile = "lrepl.toml"

// Config is the configuration of LREPL, usually read from a TOML file.
type Config struct {
	Grammar GrammarConfig `toml:"grammar"`
	REPL    REPLConfig    `toml:"repl"`
}

// GrammarConfig describes a grammar loaded from an EBNF file. If File is
// empty, the built-in expression grammar is used.
type GrammarConfig struct {
	File            string            `toml:"file"`
	Start           string            `toml:"start"`
	CaseInsensitive bool              `toml:"case-insensitive"`
	Terminals       map[string]string `toml:"terminals"` // lexical production → kind of terminal
	Operators       []OperatorConfig  `toml:"operators"`
	Punctuation     []string          `toml:"punctuation"`
	ReservedWords   []string          `toml:"reserved-words"`
	Braces          [][]string        `toml:"braces"`
	OperatorGroup   string            `toml:"operator-group"`
	LineComment     string            `toml:"line-comment"`
	BlockComment    []string          `toml:"block-comment"`
}

// OperatorConfig declares operator symbols of equal precedence.
type OperatorConfig struct {
	Symbols    []string `toml:"symbols"`
	Precedence int      `toml:"precedence"`
	Assoc      string   `toml:"assoc"`
}

// REPLConfig configures the interactive mode.
type REPLConfig struct {
	Prompt    string `toml:"prompt"`
	Trace     string `toml:"trace"`
	MaxErrors int    `toml:"max-errors"`
}

func defaultConfig() *Config {
	return &Config{
		Grammar: GrammarConfig{Start: "Program"},
		REPL: REPLConfig{
			Prompt: "lrepl> ",
			Trace:  "Info",
		},
	}
}

// loadConfig reads a configuration file. If path is empty, the default file
// is read if present.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return cfg, nil
		}
		path = defaultConfigFile
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// decodeConfig reads a configuration from a string.
func decodeConfig(src string) (*Config, error) {
	cfg := defaultConfig()
	if _, err := toml.Decode(src, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// overlay sets configuration values from command line flags which have been
// set explicitly.
func (cfg *Config) overlay(fs *pflag.FlagSet, opts *options) *Config {
	if fs.Changed("grammar") {
		cfg.Grammar.File = opts.grammarFile
	}
	if fs.Changed("start") {
		cfg.Grammar.Start = opts.start
	}
	if fs.Changed("trace") {
		cfg.REPL.Trace = opts.traceLevel
	}
	return cfg
}
