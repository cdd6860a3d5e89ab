// Package config parses command-line arguments for the msgpath tool.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/msgpath/internal/exit"
)

const (
	// FormatJSON applies the rules document's transforms to JSON
	// messages.
	FormatJSON = "json"

	// FormatXML replaces the text of a named XPath expression in XML
	// messages.
	FormatXML = "xml"
)

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrNoRulesFile           = errors.New("no rules file specified")
	ErrNoMessageFiles        = errors.New("no message files specified")
	ErrInvalidFormat         = errors.New("format must be json or xml")
	ErrMissingXPathName      = errors.New("xml format requires -xpath and -value")
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

// Config represents the complete configuration for the msgpath tool.
type Config struct {
	RulesFile    string
	Format       string
	MessageFiles []string
	OutputDir    string

	// XML replace mode
	XPathName    string
	ReplaceValue string

	RateLimit   float64
	JSONSummary bool
	Variables   map[string]any
}

// Validate checks file existence and mode-specific requirements.
func (c *Config) Validate() error {
	if c.RulesFile == "" {
		return ErrNoRulesFile
	}
	if _, err := os.Stat(c.RulesFile); err != nil {
		return fmt.Errorf("rules file %s not found: %w", c.RulesFile, err)
	}

	if len(c.MessageFiles) == 0 {
		return ErrNoMessageFiles
	}
	for _, file := range c.MessageFiles {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("message file %s not found: %w", file, err)
		}
	}

	switch c.Format {
	case FormatJSON:
	case FormatXML:
		if c.XPathName == "" || c.ReplaceValue == "" {
			return ErrMissingXPathName
		}
	default:
		return fmt.Errorf("%w, got: %s", ErrInvalidFormat, c.Format)
	}

	return nil
}

// variablesFlag implements flag.Value for repeatable -variable flags.
type variablesFlag map[string]any

func (v variablesFlag) String() string {
	var pairs []string
	for name, value := range v {
		pairs = append(pairs, fmt.Sprintf("%s=%v", name, value))
	}
	return strings.Join(pairs, ",")
}

func (v variablesFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("%w, got: %s", ErrInvalidVariableFormat, value)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return ErrEmptyVariableName
	}

	v[name] = parts[1]
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and an exit
// result carrying the message and code.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Usage and errors are reported through exit results.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		rulesFile    = fs.String("rules", "", "Path to YAML rules file declaring expressions and transforms")
		format       = fs.String("format", FormatJSON, "Message format: json or xml")
		outputDir    = fs.String("output", "", "Directory for transformed messages (default: stdout)")
		xpathName    = fs.String("xpath", "", "Registered XPath expression name for xml format")
		replaceValue = fs.String("value", "", "Replacement text for xml format")
		rateLimit    = fs.Float64("rate-limit", 0, "Rate limit in messages per second (0 for unlimited)")
		jsonSummary  = fs.Bool("json-summary", false, "Emit the processing summary as JSON")
		variables    = make(variablesFlag)
	)

	fs.Var(variables, "variable", "Template variable in format name=value (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	files := fs.Args()
	if len(files) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoMessageFiles, Usage())
	}

	finalVariables := make(map[string]any)
	for name, value := range variables {
		finalVariables[name] = value
	}

	config := &Config{
		RulesFile:    *rulesFile,
		Format:       *format,
		MessageFiles: files,
		OutputDir:    *outputDir,
		XPathName:    *xpathName,
		ReplaceValue: *replaceValue,
		RateLimit:    *rateLimit,
		JSONSummary:  *jsonSummary,
		Variables:    finalVariables,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns the command-line usage text.
func Usage() string {
	return `Usage: msgpath -rules <file> [options] <message-file>...

Applies named document expressions from a YAML rules file to message
payloads.

Options:
  -rules string       Path to YAML rules file (required)
  -format string      Message format: json or xml (default "json")
  -output string      Directory for transformed messages (default: stdout)
  -xpath string       Registered XPath expression name (xml format)
  -value string       Replacement text (xml format)
  -variable name=val  Template variable (can be used multiple times)
  -rate-limit float   Messages per second (0 for unlimited)
  -json-summary       Emit the processing summary as JSON
`
}
