// Package template renders transform value expressions. Values are
// text/template snippets with a small function map for generated
// identifiers, timestamps and string helpers.
package template

import (
	"encoding/base64"
	"math/rand/v2"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// FuncMap returns the functions available inside value expressions.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"uuid":   newUUID,
		"uuidv4": newUUID,

		"now":       timeRFC3339,
		"timestamp": timeUnix,

		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,

		"randomInt":    randomInt,
		"randomString": randomString,

		"base64": base64Encode,
	}
}

// New returns a template configured for value expressions: function map
// installed and missing variables treated as errors.
func New(name string) *template.Template {
	return template.New(name).Option("missingkey=error").Funcs(FuncMap())
}

// Apply parses and executes expr with vars as the template data.
// An empty expression renders to an empty string.
func Apply(expr string, vars map[string]any) (string, error) {
	if expr == "" {
		return "", nil
	}

	tmpl, err := New("").Parse(expr)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func newUUID() string {
	return uuid.New().String()
}

func timeRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

func timeUnix() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

// randomInt swaps parameters if min > max.
func randomInt(min, max int) int {
	if min > max {
		min, max = max, min
	}

	if min == max {
		return min
	}

	return rand.IntN(max-min+1) + min
}

func randomString(length int) string {
	if length <= 0 {
		return ""
	}

	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	buf := make([]byte, length)
	for i := range buf {
		buf[i] = charset[rand.IntN(len(charset))]
	}

	return string(buf)
}

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
