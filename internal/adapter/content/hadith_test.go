package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulease/guidance/internal/domain"
)

const hadithReply = `{
	"collection": "bukhari",
	"hadithNumber": "1",
	"hadith": [
		{"lang": "ar", "body": "<p>إنما الأعمال بالنيات</p>"},
		{"lang": "en", "body": "<p>Actions are but by <b>intentions</b>.</p>", "hadithNarrated": "Umar ibn al-Khattab"}
	]
}`

func TestHadithOfDay(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		assert.Equal(t, "/hadiths/random", r.URL.Path)
		_, _ = w.Write([]byte(hadithReply))
	}))
	defer srv.Close()

	c := NewHadithClient(srv.URL, "secret")
	h, err := c.HadithOfDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "bukhari", h.Collection)
	assert.Equal(t, "bukhari 1", h.Reference)
	assert.Equal(t, "Actions are but by intentions.", h.Text)
	assert.Equal(t, "Umar ibn al-Khattab", h.Narrator)
}

func TestHadithOfDayNoEnglish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"collection":"muslim","hadithNumber":"2","hadith":[{"lang":"ar","body":"..."}]}`))
	}))
	defer srv.Close()

	c := NewHadithClient(srv.URL, "")
	_, err := c.HadithOfDay(context.Background())
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "hello world", stripTags("<p>hello <b>world</b></p>"))
	assert.Equal(t, "plain", stripTags("plain"))
	assert.Equal(t, "", stripTags("<br/>"))
}
