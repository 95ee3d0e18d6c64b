package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/schedcheck/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateCommand_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fall.csv", "Course,Time,Instructor\nCS 301,9:00 AM,Dr. Smith\n")

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "VALID")
	assert.NotContains(t, out, "INVALID")
	assert.Contains(t, out, "fall.csv")
	assert.Contains(t, out, "security score")
}

func TestValidateCommand_InvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "Course,Time\nCS 301,9:00 AM\n")
	bad := writeFile(t, dir, "bad.txt", "<script>alert(1)</script>")

	out, err := run(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 file(s) failed validation")
	assert.Contains(t, out, "INVALID")
	assert.Contains(t, out, "MALICIOUS_CONTENT")
}

func TestValidateCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cal.ics", "BEGIN:VCALENDAR\nBEGIN:VEVENT\nSUMMARY:CS 301\nEND:VEVENT\nEND:VCALENDAR\n")

	out, err := run(t, "validate", "--json", path)
	require.NoError(t, err)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, path, reports[0]["path"])

	result := reports[0]["result"].(map[string]any)
	assert.Equal(t, true, result["isValid"])
	structure := result["metadata"].(map[string]any)["structure"].(map[string]any)
	assert.Equal(t, float64(1), structure["rowCount"])
}

func TestValidateCommand_MimeOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", `[{"course":"CS 301","time":"9:00 AM"}]`)

	out, err := run(t, "validate", "--json", "--mime", "image/png", path)
	require.NoError(t, err)
	assert.Contains(t, out, "UNEXPECTED_MIME_TYPE")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := run(t, "validate", filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestValidateCommand_RequiresArgs(t *testing.T) {
	_, err := run(t, "validate")
	assert.Error(t, err)
}

func TestValidateCommand_PolicyOverlay(t *testing.T) {
	dir := t.TempDir()
	policyPath := writeFile(t, dir, "policy.yaml", "size_limits:\n  csv: 10\n")
	path := writeFile(t, dir, "fall.csv", "Course,Time\nCS 301,9:00 AM\n")

	out, err := run(t, "validate", "--policy", policyPath, path)
	require.Error(t, err)
	assert.Contains(t, out, "FILE_TOO_LARGE")
}

func TestPolicyCommand(t *testing.T) {
	out, err := run(t, "policy")
	require.NoError(t, err)
	assert.Contains(t, out, "size_limits:")
	assert.Contains(t, out, "- name: Canvas")
	assert.Contains(t, out, "allowed_mime_types:")
}

func TestPolicyCommand_BadFile(t *testing.T) {
	dir := t.TempDir()
	policyPath := writeFile(t, dir, "policy.yaml", "{{{")

	_, err := run(t, "policy", "--policy", policyPath)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schedcheck dev")
}
