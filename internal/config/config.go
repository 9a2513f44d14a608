// Package config holds the csvscrub run configuration and decodes it from
// JSON, YAML or TOML files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/csvscrub/pkg/io/csvio"
	iox "github.com/wdm0006/csvscrub/pkg/io/ioutils"
)

const (
	DefaultInputPath  = "input_file.csv"
	DefaultOutputPath = "output_file.csv"
	DefaultStrip      = `"`
	DefaultFill       = "0"
	DefaultRows       = 10
)

// ErrUnknownFormat is returned by Load for an unrecognised file extension.
var ErrUnknownFormat = errors.New("config: unknown file format")

type Input struct {
	Path       string   `json:"path" yaml:"path" toml:"path"`
	Delimiter  string   `json:"delimiter" yaml:"delimiter" toml:"delimiter"` // one rune, or "auto"
	Encoding   string   `json:"encoding" yaml:"encoding" toml:"encoding"`
	InferTypes bool     `json:"infer_types" yaml:"infer_types" toml:"infer_types"`
	LazyQuotes bool     `json:"lazy_quotes" yaml:"lazy_quotes" toml:"lazy_quotes"`
	Strict     bool     `json:"strict" yaml:"strict" toml:"strict"`
	NullValues []string `json:"null_values" yaml:"null_values" toml:"null_values"`
}

type Output struct {
	Path      string `json:"path" yaml:"path" toml:"path"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
}

type Headers struct {
	Strip string `json:"strip" yaml:"strip" toml:"strip"`
}

type Fill struct {
	Value string `json:"value" yaml:"value" toml:"value"`
}

type Head struct {
	Rows int `json:"rows" yaml:"rows" toml:"rows"`
}

type Config struct {
	Input   Input   `json:"input" yaml:"input" toml:"input"`
	Output  Output  `json:"output" yaml:"output" toml:"output"`
	Headers Headers `json:"headers" yaml:"headers" toml:"headers"`
	Fill    Fill    `json:"fill" yaml:"fill" toml:"fill"`
	Head    Head    `json:"head" yaml:"head" toml:"head"`
}

// Default reproduces the plain run: strip double quotes from the headers of
// input_file.csv, fill missing cells with 0, keep 10 rows, write
// output_file.csv.
func Default() Config {
	return Config{
		Input:   Input{Path: DefaultInputPath, Delimiter: ",", LazyQuotes: true},
		Output:  Output{Path: DefaultOutputPath, Delimiter: ","},
		Headers: Headers{Strip: DefaultStrip},
		Fill:    Fill{Value: DefaultFill},
		Head:    Head{Rows: DefaultRows},
	}
}

var decoders = map[string]func([]byte, any) error{
	".json": json.Unmarshal,
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".toml": toml.Unmarshal,
}

// Load reads path and decodes it over Default. Keys absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return cfg, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := decode(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Input.Path == "" {
		return errors.New("config: input.path is empty")
	}
	if c.Output.Path == "" {
		return errors.New("config: output.path is empty")
	}
	if c.Head.Rows < 0 {
		return fmt.Errorf("config: head.rows must be >= 0, got %d", c.Head.Rows)
	}
	if c.Input.Delimiter != "auto" {
		if _, err := delimiter(c.Input.Delimiter); err != nil {
			return fmt.Errorf("config: input.delimiter: %w", err)
		}
	}
	if _, err := delimiter(c.Output.Delimiter); err != nil {
		return fmt.Errorf("config: output.delimiter: %w", err)
	}
	if _, err := iox.LookupEncoding(c.Input.Encoding); err != nil {
		return fmt.Errorf("config: input.encoding: %w", err)
	}
	return nil
}

func (c Config) ReaderOptions() csvio.ReaderOptions {
	opt := csvio.ReaderOptions{
		Sniff:      c.Input.Delimiter == "auto",
		LazyQuotes: c.Input.LazyQuotes,
		Encoding:   c.Input.Encoding,
		NullValues: c.Input.NullValues,
		InferTypes: c.Input.InferTypes,
		Strict:     c.Input.Strict,
	}
	if !opt.Sniff {
		opt.Delimiter, _ = delimiter(c.Input.Delimiter)
	}
	return opt
}

func (c Config) WriterOptions() csvio.WriterOptions {
	d, _ := delimiter(c.Output.Delimiter)
	return csvio.WriterOptions{Delimiter: d}
}

// delimiter parses a single-rune field separator; empty means ','.
func delimiter(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	if s == `\t` {
		return '\t', nil
	}
	r, n := utf8.DecodeRuneInString(s)
	if n != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("want a single character, got %q", s)
	}
	if r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}
