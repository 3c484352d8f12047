package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/apitest"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/screen"
)

// resetFlags restores every flag to its default so one invocation does not
// leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func decodeJSON(t *testing.T, out string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	path := filepath.Join(t.TempDir(), "item.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
}

func TestCLI_EndToEnd(t *testing.T) {
	isolate(t)
	_, srv := apitest.Start(t)
	sessionFile := filepath.Join(t.TempDir(), "session.yaml")
	global := []string{"--json", "--base-url", srv.URL, "--session", sessionFile}
	run := func(args ...string) map[string]interface{} {
		t.Helper()
		out, err := execute(t, append(append([]string{}, args...), global...)...)
		require.NoError(t, err, "lostfound %v", args)
		return decodeJSON(t, out)
	}

	out := run("register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")
	assert.Equal(t, "User registered successfully", out["message"])
	assert.EqualValues(t, 1, out["userId"])

	out = run("whoami")
	assert.Equal(t, false, out["logged_in"])

	out = run("login", "--email", "ann@example.com", "--password", "secret1")
	assert.Equal(t, "Ann", out["name"])
	_, err := os.Stat(sessionFile)
	require.NoError(t, err)

	out = run("whoami")
	assert.Equal(t, true, out["logged_in"])
	user := out["user"].(map[string]interface{})
	assert.Equal(t, "ann@example.com", user["email"])

	out = run("meetup-points")
	assert.EqualValues(t, len(apitest.DefaultMeetupPoints), out["count"])

	out = run("reports", "create",
		"--title", "Black umbrella",
		"--description", "Found in A201",
		"--image", writePNG(t, 64, 48),
		"--meetup", "1",
	)
	id := int(out["id"].(float64))
	assert.Equal(t, "Black umbrella", out["title"])

	out = run("reports", "list")
	assert.EqualValues(t, 1, out["count"])

	out = run("reports", "search", "UMBRELLA")
	assert.EqualValues(t, 1, out["count"])
	assert.Equal(t, "UMBRELLA", out["query"])

	out = run("reports", "search", "bicycle")
	assert.EqualValues(t, 0, out["count"])

	out = run("comments", "add", strconv.Itoa(id), "I", "think", "this", "is", "mine")
	assert.Equal(t, "I think this is mine", out["comment"])

	out = run("comments", "list", strconv.Itoa(id))
	assert.EqualValues(t, 1, out["count"])

	out = run("reports", "get", strconv.Itoa(id))
	report := out["report"].(map[string]interface{})
	assert.Equal(t, "Found in A201", report["description"])
	assert.Len(t, out["comments"], 1)

	out = run("profile", "update", "--name", "Ann Lee")
	assert.Equal(t, "Ann Lee", out["name"])

	out = run("whoami")
	user = out["user"].(map[string]interface{})
	assert.Equal(t, "Ann Lee", user["name"])

	out = run("logout")
	assert.Equal(t, "logged_out", out["status"])

	out = run("whoami")
	assert.Equal(t, false, out["logged_in"])
}

func TestCLI_ControllerErrorsAreReported(t *testing.T) {
	isolate(t)
	_, srv := apitest.Start(t)
	sessionFile := filepath.Join(t.TempDir(), "session.yaml")

	_, err := execute(t, "login", "--email", " ", "--password", "x",
		"--base-url", srv.URL, "--session", sessionFile)
	require.Error(t, err)

	var screenErr *screen.Error
	require.True(t, errors.As(err, &screenErr))
	assert.Equal(t, "Please fill all fields", screenErr.Message)
	assert.True(t, reported(err))

	_, err = execute(t, "reports", "get", "abc", "--base-url", srv.URL, "--session", sessionFile)
	require.Error(t, err)
	assert.False(t, reported(err))
}

func TestNewLogger(t *testing.T) {
	isolate(t)
	_, err := execute(t, "whoami", "--debug", "--session", filepath.Join(t.TempDir(), "s.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

// stdin replaces os.Stdin with a pipe holding input for the rest of the test.
func stdin(t *testing.T, input string) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = io.WriteString(w, input)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	orig := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = orig
		_ = r.Close()
	})
}

func TestReadPassword_PipedLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spaces kept", input: "correct horse battery\n", want: "correct horse battery"},
		{name: "crlf", input: "correct horse battery\r\n", want: "correct horse battery"},
		{name: "no newline", input: "secret1", want: "secret1"},
		{name: "only first line", input: "first line\nsecond\n", want: "first line"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdin(t, tt.input)
			got, err := readPassword("Password: ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCLI_PipedPasswordWithSpaces(t *testing.T) {
	isolate(t)
	_, srv := apitest.Start(t)
	global := []string{"--json", "--base-url", srv.URL, "--session", filepath.Join(t.TempDir(), "session.yaml")}

	stdin(t, "correct horse battery\n")
	_, err := execute(t, append([]string{"register", "--name", "Ann", "--email", "ann@example.com"}, global...)...)
	require.NoError(t, err)

	stdin(t, "correct horse battery\n")
	out, err := execute(t, append([]string{"login", "--email", "ann@example.com"}, global...)...)
	require.NoError(t, err)
	assert.Equal(t, "Ann", decodeJSON(t, out)["name"])
}

// chdir changes the working directory for the duration of the test and
// restores it afterwards (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
