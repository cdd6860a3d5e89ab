// Package output renders per-file processing summaries.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// FileResult records the outcome of processing one message file.
type FileResult struct {
	Filename string
	Error    error
	Bytes    int
	Duration time.Duration
}

// Summary aggregates results across a batch of message files.
type Summary struct {
	FileResults []FileResult
}

// Add appends one file result.
func (s *Summary) Add(result FileResult) {
	s.FileResults = append(s.FileResults, result)
}

// Failed reports how many files failed.
func (s *Summary) Failed() int {
	failed := 0
	for _, result := range s.FileResults {
		if result.Error != nil {
			failed++
		}
	}
	return failed
}

// FormatText writes one line per file.
func (s *Summary) FormatText(w io.Writer) error {
	for _, result := range s.FileResults {
		status := "Success"
		if result.Error != nil {
			status = fmt.Sprintf("Failed: %v", result.Error)
		}
		_, err := fmt.Fprintf(w, "%s: %s (%d byte(s) in %d ms)\n",
			result.Filename, status, result.Bytes, result.Duration.Milliseconds())
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatJSON writes the summary as a single JSON document.
func (s *Summary) FormatJSON(w io.Writer) error {
	type fileResultJSON struct {
		Filename   string `json:"filename"`
		Success    bool   `json:"success"`
		Error      string `json:"error,omitempty"`
		Bytes      int    `json:"bytes"`
		DurationMS int64  `json:"duration_ms"`
	}

	out := struct {
		Files  []fileResultJSON `json:"files"`
		Failed int              `json:"failed"`
	}{
		Files:  make([]fileResultJSON, 0, len(s.FileResults)),
		Failed: s.Failed(),
	}

	for _, result := range s.FileResults {
		entry := fileResultJSON{
			Filename:   result.Filename,
			Success:    result.Error == nil,
			Bytes:      result.Bytes,
			DurationMS: result.Duration.Milliseconds(),
		}
		if result.Error != nil {
			entry.Error = result.Error.Error()
		}
		out.Files = append(out.Files, entry)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
