package run

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jacoelho/msgpath/internal/config"
)

const testRules = `
pointers:
  user-id: /user/id
  customer-id: /customer/id
transforms:
  - source: user-id
    target: customer-id
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestRunner(t *testing.T, cfg *config.Config) (*Runner, *strings.Builder, *strings.Builder) {
	t.Helper()

	runner, exitResult := New(cfg)
	if exitResult != nil {
		t.Fatalf("New() exit result = %+v", exitResult)
	}

	var stdout, stderr strings.Builder
	runner.stdout = &stdout
	runner.stderr = &stderr
	return runner, &stdout, &stderr
}

func TestRunnerTransformsJSONToOutputDir(t *testing.T) {
	dir := t.TempDir()
	rulesFile := writeFile(t, dir, "rules.yaml", testRules)
	messageFile := writeFile(t, dir, "msg.json", `{"user":{"id":"u-1"}}`)
	outputDir := filepath.Join(dir, "out")

	cfg := &config.Config{
		RulesFile:    rulesFile,
		Format:       config.FormatJSON,
		MessageFiles: []string{messageFile},
		OutputDir:    outputDir,
	}

	runner, stdout, _ := newTestRunner(t, cfg)

	if code := runner.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, want 0 (summary: %s)", code, stdout.String())
	}

	transformed, err := os.ReadFile(filepath.Join(outputDir, "msg.json"))
	if err != nil {
		t.Fatalf("read transformed file: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(transformed, &doc); err != nil {
		t.Fatalf("transformed payload is not JSON: %v", err)
	}
	customer, ok := doc["customer"].(map[string]any)
	if !ok || customer["id"] != "u-1" {
		t.Errorf("transformed doc = %v, want customer.id = u-1", doc)
	}

	if !strings.Contains(stdout.String(), "Success") {
		t.Errorf("summary should report success, got %q", stdout.String())
	}
}

func TestRunnerWritesPayloadToStdout(t *testing.T) {
	dir := t.TempDir()
	rulesFile := writeFile(t, dir, "rules.yaml", testRules)
	messageFile := writeFile(t, dir, "msg.json", `{"user":{"id":"u-2"}}`)

	cfg := &config.Config{
		RulesFile:    rulesFile,
		Format:       config.FormatJSON,
		MessageFiles: []string{messageFile},
	}

	runner, stdout, stderr := newTestRunner(t, cfg)

	if code := runner.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, want 0 (summary: %s)", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), `"u-2"`) {
		t.Errorf("stdout should carry the transformed payload, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Success") {
		t.Errorf("stderr should carry the summary, got %q", stderr.String())
	}
}

func TestRunnerXMLReplace(t *testing.T) {
	dir := t.TempDir()
	rulesFile := writeFile(t, dir, "rules.yaml", `
xpath:
  - name: item
    expression: //list/item
`)
	messageFile := writeFile(t, dir, "msg.xml", `<list><item>old</item><item>old</item></list>`)

	cfg := &config.Config{
		RulesFile:    rulesFile,
		Format:       config.FormatXML,
		MessageFiles: []string{messageFile},
		XPathName:    "item",
		ReplaceValue: "new",
	}

	runner, stdout, stderr := newTestRunner(t, cfg)

	if code := runner.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, want 0 (summary: %s)", code, stderr.String())
	}

	if got := strings.Count(stdout.String(), "<item>new</item>"); got != 2 {
		t.Errorf("stdout has %d replaced items, want 2: %q", got, stdout.String())
	}
}

func TestRunnerReportsFailures(t *testing.T) {
	dir := t.TempDir()
	rulesFile := writeFile(t, dir, "rules.yaml", testRules)
	goodFile := writeFile(t, dir, "good.json", `{"user":{"id":"u-3"}}`)
	badFile := writeFile(t, dir, "bad.json", `{not json`)

	cfg := &config.Config{
		RulesFile:    rulesFile,
		Format:       config.FormatJSON,
		MessageFiles: []string{goodFile, badFile},
		JSONSummary:  true,
	}

	runner, _, stderr := newTestRunner(t, cfg)

	if code := runner.Run(context.Background()); code != 1 {
		t.Fatalf("Run() = %d, want 1 when a file fails", code)
	}

	var summary struct {
		Failed int `json:"failed"`
	}
	if err := json.Unmarshal([]byte(stderr.String()), &summary); err != nil {
		t.Fatalf("summary is not JSON: %v (%q)", err, stderr.String())
	}
	if summary.Failed != 1 {
		t.Errorf("summary failed = %d, want 1", summary.Failed)
	}
}

func TestNewRejectsBadRules(t *testing.T) {
	dir := t.TempDir()
	rulesFile := writeFile(t, dir, "rules.yaml", `
transforms:
  - target: unregistered
    value: x
`)

	cfg := &config.Config{
		RulesFile:    rulesFile,
		Format:       config.FormatJSON,
		MessageFiles: []string{rulesFile},
	}

	runner, exitResult := New(cfg)
	if runner != nil || exitResult == nil {
		t.Fatal("New() should fail for invalid rules")
	}
	if exitResult.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", exitResult.ExitCode)
	}
}
