package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/studygen/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer serves the index page and answers /generate with reply.
type fakeServer struct {
	*httptest.Server
	generateCalls atomic.Int32
	loginCalls    atomic.Int32
	lastAuth      atomic.Value
}

func newFakeServer(t *testing.T, status int, reply string) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		page, err := ui.LoadIndex()
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		assert.NoError(t, page.Render(w))
	})
	mux.HandleFunc("POST /generate", func(w http.ResponseWriter, r *http.Request) {
		fs.generateCalls.Add(1)
		fs.lastAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		fs.loginCalls.Add(1)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "student@example.com", body["email"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"3f1c9a52-7d4e-4b8a-9c61-2e5f0a7b8d93","token":"tok-123","refresh_token":"ref-456","expires_at":"2026-10-19T12:00:00Z"}`))
	})
	mux.HandleFunc("POST /subscribe", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"authorization_url":"https://checkout.paystack.com/abc"}`))
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("STUDYGEN_TOKEN", "")
	t.Setenv("STUDYGEN_SERVER", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGenerate_FlashcardsAsText(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"flashcards":[["What is H2O?","Water"],["Boiling point?","100°C"]],"remaining":4}`)

	out, errOut, err := runCLI(t, "", "generate", "--server", srv.URL, "--token", "tok",
		"--mode", "flashcards", "--text", "  chemistry notes  ")

	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Equal(t, "Q: What is H2O?\nA: Water\n\nQ: Boiling point?\nA: 100°C\n", out)
	assert.Equal(t, "Bearer tok", srv.lastAuth.Load())
}

func TestGenerate_QuizAsHTML(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"quiz":[{"question":"Pick <b>one</b>","options":["A","B"]}]}`)

	out, _, err := runCLI(t, "", "generate", "--server", srv.URL, "--token", "tok",
		"--mode", "quiz", "--text", "notes", "--format", "html")

	require.NoError(t, err)
	assert.Equal(t,
		`<div class="quiz-question"><h3>Q1: Pick &lt;b&gt;one&lt;/b&gt;</h3><div class="quiz-options">`+
			`<button class="quiz-option">A</button><button class="quiz-option">B</button></div></div>`+"\n",
		out)
}

func TestGenerate_ReadsFileAndStdin(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"flashcards":[["Q","A"]]}`)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("from a file"), 0o600))

	_, _, err := runCLI(t, "", "generate", "--server", srv.URL, "--file", path)
	require.NoError(t, err)

	_, _, err = runCLI(t, "from stdin", "generate", "--server", srv.URL, "--file", "-")
	require.NoError(t, err)

	assert.Equal(t, int32(2), srv.generateCalls.Load())
}

func TestGenerate_EmptyInputAlerts(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"quiz":[]}`)

	out, errOut, err := runCLI(t, "", "generate", "--server", srv.URL, "--mode", "quiz", "--text", "   ")

	require.Error(t, err)
	var alerted *alertedError
	assert.ErrorAs(t, err, &alerted)
	assert.ErrorIs(t, err, ui.ErrEmptyInput)
	assert.Equal(t, "Please paste some text to generate quiz\n", errOut)
	assert.Empty(t, out)
	assert.Equal(t, int32(0), srv.generateCalls.Load())
}

func TestGenerate_ServerErrorAlertsVerbatim(t *testing.T) {
	const msg = "Limit reached. Please subscribe for 1 month at Ksh 299."
	srv := newFakeServer(t, http.StatusPaymentRequired, `{"error":"`+msg+`"}`)

	out, errOut, err := runCLI(t, "", "generate", "--server", srv.URL, "--token", "tok", "--text", "notes")

	require.Error(t, err)
	var appErr *ui.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, msg, appErr.Message)
	assert.Equal(t, msg+"\n", errOut)
	assert.Empty(t, out)
}

func TestGenerate_MalformedResponseAlertsGeneric(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `not json`)

	out, errOut, err := runCLI(t, "", "generate", "--server", srv.URL, "--token", "tok", "--text", "notes")

	require.Error(t, err)
	assert.ErrorIs(t, err, ui.ErrUnexpected)
	assert.Contains(t, errOut, ui.UnexpectedAlert)
	assert.Empty(t, out)
}

func TestGenerate_RejectsUnknownFormat(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"flashcards":[]}`)

	_, _, err := runCLI(t, "", "generate", "--server", srv.URL, "--text", "notes", "--format", "pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
	assert.Equal(t, int32(0), srv.generateCalls.Load())
}

func TestLogin_SavesToken(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{}`)
	cfgPath := filepath.Join(t.TempDir(), "studygen.yaml")

	out, _, err := runCLI(t, "", "login", "--server", srv.URL, "--config", cfgPath,
		"--email", " Student@Example.com ", "--password", "correct horse battery", "--save")

	require.NoError(t, err)
	assert.Contains(t, out, "Logged in successfully!")
	assert.Contains(t, out, "Token saved to "+cfgPath)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tok-123")
}

func TestLogin_PrintsExport(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{}`)

	out, _, err := runCLI(t, "", "login", "--server", srv.URL,
		"--email", "student@example.com", "--password", "correct horse battery")

	require.NoError(t, err)
	assert.Contains(t, out, "export STUDYGEN_TOKEN=tok-123\n")
	assert.Equal(t, int32(1), srv.loginCalls.Load())
}

func TestLogin_SaveNeedsConfig(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{}`)

	_, _, err := runCLI(t, "", "login", "--server", srv.URL,
		"--email", "student@example.com", "--password", "correct horse battery", "--save")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--save needs --config")
	assert.Equal(t, int32(0), srv.loginCalls.Load(), "credentials are not sent when the token cannot be saved")
}

func TestSubscribe(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{}`)

	t.Run("prints checkout url", func(t *testing.T) {
		out, _, err := runCLI(t, "", "subscribe", "--server", srv.URL, "--token", "tok")
		require.NoError(t, err)
		assert.Contains(t, out, "https://checkout.paystack.com/abc")
	})

	t.Run("needs a token", func(t *testing.T) {
		_, _, err := runCLI(t, "", "subscribe", "--server", srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not logged in")
	})
}

func TestConfigFileSuppliesToken(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"flashcards":[["Q","A"]]}`)
	cfgPath := filepath.Join(t.TempDir(), "studygen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("token: from-file\n"), 0o600))

	_, _, err := runCLI(t, "", "generate", "--server", srv.URL, "--config", cfgPath, "--text", "notes")

	require.NoError(t, err)
	assert.Equal(t, "Bearer from-file", srv.lastAuth.Load())
}
