package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getPage(t *testing.T, target string) *ui.Page {
	t.Helper()
	w := httptest.NewRecorder()
	NewPageHandler(nil).Index(w, newRequest(t, http.MethodGet, target, nil, uuid.Nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	p, err := ui.ParsePage(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	return p
}

func TestIndexShowsLoginByDefault(t *testing.T) {
	p := getPage(t, "/")
	assert.Equal(t, ui.DisplayBlock, p.Display(ui.IDLoginForm))
	assert.Equal(t, ui.DisplayNone, p.Display(ui.IDRegisterForm))
	assert.Equal(t, ui.DisplayNone, p.Display(ui.IDNotice))
}

func TestIndexRegisterForm(t *testing.T) {
	p := getPage(t, "/?form=register")
	assert.Equal(t, ui.DisplayNone, p.Display(ui.IDLoginForm))
	assert.Equal(t, ui.DisplayBlock, p.Display(ui.IDRegisterForm))
}

func TestIndexNotice(t *testing.T) {
	q := url.Values{"notice": {"<script>x</script>"}, "level": {"evil"}}
	p := getPage(t, "/?"+q.Encode())

	assert.Equal(t, "<script>x</script>", p.Text(ui.IDNotice))
	assert.Equal(t, ui.DisplayBlock, p.Display(ui.IDNotice))
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	NewPageHandler(nil).Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
