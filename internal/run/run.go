// Package run processes batches of message files with a configured
// transform engine.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jacoelho/msgpath/internal/config"
	"github.com/jacoelho/msgpath/internal/exit"
	"github.com/jacoelho/msgpath/internal/output"
	"github.com/jacoelho/msgpath/internal/ratelimit"
	"github.com/jacoelho/msgpath/internal/rules"
	"github.com/jacoelho/msgpath/internal/transform"
)

// Runner applies the configured engine to each message file in turn.
type Runner struct {
	cfg     *config.Config
	engine  *transform.Engine
	limiter *ratelimit.Limiter

	// Payloads go to stdout unless an output directory is configured;
	// the summary then goes to stderr so the payload stream stays clean.
	stdout io.Writer
	stderr io.Writer
}

// New loads the rules file and builds the engine.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	file, err := os.Open(cfg.RulesFile)
	if err != nil {
		return nil, exit.Errorf("Error: open rules file: %v\n", err)
	}
	defer file.Close()

	def, err := rules.Parse(file)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	engine, err := transform.New(def, cfg.Variables)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	return &Runner{
		cfg:     cfg,
		engine:  engine,
		limiter: ratelimit.New(cfg.RateLimit),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}, nil
}

// Run processes every message file and prints the summary. Returns the
// process exit code: 0 when every file succeeded, 1 otherwise.
func (r *Runner) Run(ctx context.Context) int {
	summary := &output.Summary{}

	for _, file := range r.cfg.MessageFiles {
		if err := r.limiter.Wait(ctx); err != nil {
			summary.Add(output.FileResult{Filename: file, Error: err})
			break
		}
		summary.Add(r.processFile(file))
	}

	summaryWriter := r.stdout
	if r.cfg.OutputDir == "" {
		summaryWriter = r.stderr
	}

	var err error
	if r.cfg.JSONSummary {
		err = summary.FormatJSON(summaryWriter)
	} else {
		err = summary.FormatText(summaryWriter)
	}
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: write summary: %v\n", err)
		return 1
	}

	if summary.Failed() > 0 {
		return 1
	}
	return 0
}

// processFile reads, transforms and writes one message file.
func (r *Runner) processFile(file string) output.FileResult {
	start := time.Now()
	result := output.FileResult{Filename: file}

	payload, err := os.ReadFile(file)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	var transformed []byte
	switch r.cfg.Format {
	case config.FormatXML:
		transformed, err = r.engine.ReplaceXML(payload, r.cfg.XPathName, r.cfg.ReplaceValue)
	default:
		transformed, err = r.engine.ApplyJSON(payload)
	}
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	result.Bytes = len(transformed)
	result.Error = r.write(file, transformed)
	result.Duration = time.Since(start)
	return result
}

// write sends the transformed payload to the output directory, or to
// stdout when none is configured.
func (r *Runner) write(file string, payload []byte) error {
	if r.cfg.OutputDir == "" {
		if _, err := r.stdout.Write(payload); err != nil {
			return err
		}
		_, err := io.WriteString(r.stdout, "\n")
		return err
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	target := filepath.Join(r.cfg.OutputDir, filepath.Base(file))
	return os.WriteFile(target, payload, 0o644)
}
