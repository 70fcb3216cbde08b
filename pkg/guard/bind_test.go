package guard_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inputguard/pkg/guard"
)

type searchQuery struct {
	Keyword string   `query:"q"`
	Page    int      `query:"page"`
	Tags    []string `query:"tag"`
	Exact   *bool    `query:"exact"`
	Secret  string   `query:"-"`
	Size    uint
	hidden  string
}

func TestBindQuery(t *testing.T) {
	t.Parallel()

	t.Run("binds sanitized values", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet,
			"/search?q=%3Cb%3Ego%3C%2Fb%3E&page=2&tag=api&tag=%3Cx%3E&exact=on&Secret=s&size=20&hidden=h", nil)

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			var q searchQuery
			require.NoError(t, guard.BindQuery(r, &q))

			assert.Equal(t, "&lt;b&gt;go&lt;/b&gt;", q.Keyword)
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, []string{"api", "&lt;x&gt;"}, q.Tags)
			require.NotNil(t, q.Exact)
			assert.True(t, *q.Exact)
			assert.Empty(t, q.Secret)
			assert.Equal(t, uint(20), q.Size)
			assert.Empty(t, q.hidden)
		})
	})

	t.Run("missing values keep zero value", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		var q searchQuery
		require.NoError(t, guard.BindQuery(req, &q))
		assert.Equal(t, searchQuery{}, q)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/search?page=abc", nil)
		var q searchQuery
		err := guard.BindQuery(req, &q)
		require.Error(t, err)
		assert.ErrorIs(t, err, guard.ErrFailedToBindQuery)
		assert.ErrorIs(t, err, guard.ErrInvalidValue)
	})

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		var q searchQuery
		assert.ErrorIs(t, guard.BindQuery(req, q), guard.ErrInvalidTarget)
		assert.ErrorIs(t, guard.BindQuery(req, nil), guard.ErrInvalidTarget)

		s := "str"
		assert.ErrorIs(t, guard.BindQuery(req, &s), guard.ErrInvalidTarget)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/?m=1", nil)
		var dst struct {
			M map[string]string `query:"m"`
		}
		assert.ErrorIs(t, guard.BindQuery(req, &dst), guard.ErrUnsupportedType)
	})
}

func TestBindForm(t *testing.T) {
	t.Parallel()

	form := url.Values{
		"author":  {"Ann <ann@example.com>"},
		"content": {"<img src=x onerror=alert(1)>Hello"},
		"notify":  {"yes"},
	}
	req := httptest.NewRequest(http.MethodPost, "/comments/preview?post_id=7", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
		var dst struct {
			PostID  int64  `form:"post_id"`
			Author  string `form:"author"`
			Content string `form:"content,omitempty"`
			Notify  bool   `form:"notify"`
		}
		require.NoError(t, guard.BindForm(r, &dst))

		assert.Equal(t, int64(7), dst.PostID)
		assert.Equal(t, "Ann &lt;ann@example.com&gt;", dst.Author)
		assert.Equal(t, "&lt;img src=x alert(1)&gt;Hello", dst.Content)
		assert.True(t, dst.Notify)
	})
}
