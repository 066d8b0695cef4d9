package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/fakeapi"
)

type harness struct {
	t      *testing.T
	apiURL string
	db     string
}

func newHarness(t *testing.T, opts fakeapi.Options) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("LEAP_CONFIG", "")

	ts := httptest.NewServer(fakeapi.NewServer(opts).Router())
	t.Cleanup(ts.Close)
	return &harness{t: t, apiURL: ts.URL, db: filepath.Join(dir, "leap.db")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(append([]string{"--api-url", h.apiURL, "--db", h.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})
	out, err := h.run("version")
	require.NoError(t, err)
	assert.Equal(t, "leap (devel)\n", out)
}

func TestUnknownOutputFormat(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})
	_, err := h.run("-o", "xml", "health")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestHealth(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})
	out, err := h.run("health", "-o", "json")
	require.NoError(t, err)

	var status api.HealthStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "ok", status.Status)
}

func TestHealth_BadWatchSchedule(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})
	_, err := h.run("health", "--watch", "whenever")
	assert.ErrorContains(t, err, "invalid schedule")
}

func TestChallengesList(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})

	out, err := h.run("challenges", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning Gratitude")
	assert.Contains(t, out, "Checkbox")

	out, err = h.run("challenges", "list", "--difficulty", "hard", "-o", "json")
	require.NoError(t, err)
	var templates []api.ChallengeTemplate
	require.NoError(t, json.Unmarshal([]byte(out), &templates))
	assert.Len(t, templates, 2)

	_, err = h.run("challenges", "list", "--difficulty", "extreme")
	assert.ErrorContains(t, err, "unknown difficulty")
}

func TestChallengesShow(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})
	out, err := h.run("challenges", "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cold Shower")
	assert.Contains(t, out, "30 seconds", "description is flattened to plain text")
	assert.NotContains(t, out, "<b>")

	_, err = h.run("challenges", "show", "abc")
	assert.ErrorContains(t, err, `invalid ID "abc"`)
}

func TestChallengesComplete(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})

	_, err := h.run("challenges", "complete", "1")
	assert.EqualError(t, err, "Please enter your response.")

	_, err = h.run("challenges", "complete", "2")
	assert.EqualError(t, err, "Please mark the challenge as completed.")

	out, err := h.run("challenges", "complete", "2", "--done")
	require.NoError(t, err)
	assert.Contains(t, out, "Challenge completion submitted!")

	out, err = h.run("completions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Cold Shower")
	assert.Contains(t, out, "Morning Gratitude")
}

func TestContentList_FuzzyCategory(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})

	out, err := h.run("content", "list", "--category", "stoicsm")
	require.NoError(t, err)
	assert.Contains(t, out, "Meditations")
	assert.NotContains(t, out, "Ten Percent Happier")

	out, err = h.run("content", "list", "--search", "nothing like this")
	require.NoError(t, err)
	assert.Contains(t, out, "No content found for the selected criteria.")

	_, err = h.run("content", "list", "--category", "cooking")
	assert.ErrorContains(t, err, "unknown category")
}

func TestContentAddAndUpdate(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})

	_, err := h.run("content", "add", "--description", "d", "--url", "https://x.io")
	assert.EqualError(t, err, "Title is required.")

	_, err = h.run("content", "add", "--title", "t", "--description", "d", "--url", "https://x.io", "--duration", "1.5")
	assert.EqualError(t, err, "Duration must be a whole number of minutes.")

	out, err := h.run("content", "add",
		"--title", "Letters from a Stoic", "--description", "Seneca's letters",
		"--url", "https://example.com/letters", "--type", "book", "--category", "stoicism", "--author", "Seneca")
	require.NoError(t, err)
	assert.Contains(t, out, "Content added successfully!")
	assert.Contains(t, out, "Seneca")

	out, err = h.run("content", "update", "5", "--title", "Letters", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Letters\n")
	assert.Contains(t, out, "author_name: Seneca\n", "unset flags keep their values")
}

func TestLoginLogout(t *testing.T) {
	h := newHarness(t, fakeapi.Options{RequireAuth: true})

	_, err := h.run("completions", "list")
	assert.EqualError(t, err, "list completions: HTTP error! status: 401")

	_, err = h.run("login", "-u", "demo", "-p", "wrong")
	assert.EqualError(t, err, "login: invalid username or password (HTTP error! status: 401)")

	out, err := h.run("login", "-u", "demo", "-p", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as demo.")

	out, err = h.run("completions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning Gratitude")

	_, err = h.run("logout")
	require.NoError(t, err)
	_, err = h.run("completions", "list")
	assert.ErrorContains(t, err, "HTTP error! status: 401")
}

func TestRequestsHistory(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})

	_, err := h.run("challenges", "list")
	require.NoError(t, err)
	_, err = h.run("challenges", "show", "99")
	require.Error(t, err)

	out, err := h.run("requests", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "/api/practice_challenges/templates")
	assert.Contains(t, out, "✗")

	out, err = h.run("requests", "list", "--failed", "-o", "json")
	require.NoError(t, err)
	var failed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &failed))
	require.Len(t, failed, 1)

	out, err = h.run("requests", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "TOTAL")
}

func TestReset(t *testing.T) {
	h := newHarness(t, fakeapi.Options{})
	_, err := h.run("challenges", "list")
	require.NoError(t, err)

	_, err = h.run("reset")
	assert.ErrorContains(t, err, "--yes")

	out, err := h.run("reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Local data cleared.")
	assert.NoFileExists(t, h.db)
}
