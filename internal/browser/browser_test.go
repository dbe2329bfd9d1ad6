package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"
)

const testPage = `<!DOCTYPE html>
<html>
<head><title>Example Domain</title></head>
<body>
<h1>Example Domain</h1>
<form id="search" onsubmit="event.preventDefault(); document.getElementById('submitted').innerText = '[' + this.q.value + ']';">
  <input name="q" type="text">
</form>
<div id="submitted"></div>
<button class="b" onclick="this.dataset.clicked = '1'; log.push('first')">one</button>
<button class="b" onclick="this.dataset.clicked = '1'; log.push('second')">two</button>
<button class="b" onclick="this.dataset.clicked = '1'; log.push('third')">three</button>
<ul><li>alpha</li><li>beta</li></ul>
<svg width="100" height="20"><text x="0" y="15">chart label</text></svg>
<script>var log = [];</script>
</body>
</html>`

// These tests start a real browser and are skipped unless
// SCRAPPER_BROWSER_TESTS=1.
func newTestPage(t *testing.T) (Page, string) {
	t.Helper()

	if os.Getenv("SCRAPPER_BROWSER_TESTS") != "1" {
		t.Skip("set SCRAPPER_BROWSER_TESTS=1 to run browser tests")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.ElementTimeout = 2 * time.Second

	ctx := context.Background()
	s, err := New(cfg).Launch(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	page, err := s.NewPage(ctx)
	require.NoError(t, err)
	require.NoError(t, page.Navigate(ctx, srv.URL))
	return page, srv.URL
}

func TestNew_DefaultElementTimeout(t *testing.T) {
	l := New(Config{Headless: true})
	assert.Equal(t, DefaultElementTimeout, l.Config().ElementTimeout)

	l = New(Config{ElementTimeout: time.Second})
	assert.Equal(t, time.Second, l.Config().ElementTimeout)
}

func TestLaunch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultConfig()).Launch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPage_Texts(t *testing.T) {
	page, _ := newTestPage(t)
	ctx := context.Background()

	texts, err := page.Texts(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Example Domain"}, texts)

	texts, err = page.Texts(ctx, "li")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, texts)

	texts, err = page.Texts(ctx, "table")
	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestPage_TextsNonHTMLElements(t *testing.T) {
	page, _ := newTestPage(t)

	texts, err := page.Texts(context.Background(), "svg text")
	require.NoError(t, err)
	assert.Equal(t, []string{"chart label"}, texts)
}

func TestToStrings_Null(t *testing.T) {
	got := toStrings(gson.NewFrom(`["Example Domain", null, ""]`).Arr())
	assert.Equal(t, []string{"Example Domain", "", ""}, got)

	assert.Empty(t, toStrings(gson.NewFrom(`[]`).Arr()))
}

func TestPage_HTMLs(t *testing.T) {
	page, _ := newTestPage(t)

	htmls, err := page.HTMLs(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"<h1>Example Domain</h1>"}, htmls)
}

func TestPage_TypeAndPressEnter(t *testing.T) {
	page, _ := newTestPage(t)
	ctx := context.Background()

	require.NoError(t, page.Type(ctx, "input[name=q]", "test"))
	require.NoError(t, page.PressEnter(ctx))

	texts, err := page.Texts(ctx, "#submitted")
	require.NoError(t, err)
	assert.Equal(t, []string{"[test]"}, texts)
}

func TestPage_TypeEmptyStillSubmits(t *testing.T) {
	page, _ := newTestPage(t)
	ctx := context.Background()

	require.NoError(t, page.Type(ctx, "input[name=q]", ""))
	require.NoError(t, page.PressEnter(ctx))

	texts, err := page.Texts(ctx, "#submitted")
	require.NoError(t, err)
	assert.Equal(t, []string{"[]"}, texts)
}

func TestPage_TypeMultibyte(t *testing.T) {
	page, _ := newTestPage(t)
	ctx := context.Background()

	require.NoError(t, page.Type(ctx, "input[name=q]", "héllo 世界"))
	require.NoError(t, page.PressEnter(ctx))

	texts, err := page.Texts(ctx, "#submitted")
	require.NoError(t, err)
	assert.Equal(t, []string{"[héllo 世界]"}, texts)
}

func TestPage_TypeMissingElement(t *testing.T) {
	page, _ := newTestPage(t)

	err := page.Type(context.Background(), "textarea[name=q]", "test")
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestPage_ClickFirstMatch(t *testing.T) {
	page, _ := newTestPage(t)
	ctx := context.Background()

	require.NoError(t, page.Click(ctx, "button.b"))

	clicked, err := page.HTMLs(ctx, "button[data-clicked]")
	require.NoError(t, err)
	require.Len(t, clicked, 1)
	assert.Contains(t, clicked[0], ">one<")
}

func TestPage_ElementOutlivesWaitWindow(t *testing.T) {
	page, _ := newTestPage(t)
	ctx := context.Background()
	rp := page.(*rodPage)

	_, err := rp.element(ctx, "a.missing")
	require.ErrorIs(t, err, ErrElementNotFound)

	el, err := rp.element(ctx, "h1")
	require.NoError(t, err)

	time.Sleep(rp.elementTimeout + 500*time.Millisecond)
	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "Example Domain", text)
}

func TestPage_ClickMissingElement(t *testing.T) {
	page, _ := newTestPage(t)

	err := page.Click(context.Background(), "a.missing")
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestPage_NavigateFailure(t *testing.T) {
	page, _ := newTestPage(t)

	err := page.Navigate(context.Background(), "http://nonexistent.invalid/")
	assert.Error(t, err)
}
