package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulease/guidance/internal/domain"
)

const quranReply = `{"data":[
	{"text":"ٱللَّهُ لَآ إِلَٰهَ إِلَّا هُوَ","numberInSurah":255,"surah":{"number":2,"englishName":"Al-Baqarah"},"edition":{"identifier":"quran-uthmani"}},
	{"text":"Allah - there is no deity except Him","numberInSurah":255,"surah":{"number":2,"englishName":"Al-Baqarah"},"edition":{"identifier":"en.sahih"}}
]}`

func TestVerseOfDay(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(quranReply))
	}))
	defer srv.Close()

	c := NewQuranClient(srv.URL)
	c.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	v, err := c.VerseOfDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Al-Baqarah", v.Surah)
	assert.Equal(t, 255, v.Number)
	assert.NotEmpty(t, v.ArabicText)
	assert.Equal(t, "Allah - there is no deity except Him", v.Translation)
	// Day 1 of the rotation.
	assert.Contains(t, path, "/ayah/"+verseRefs[1%len(verseRefs)]+"/")
}

func TestVerseOfDayRotates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(quranReply))
	}))
	defer srv.Close()

	c := NewQuranClient(srv.URL)
	seen := map[string]bool{}
	for day := 1; day <= 3; day++ {
		d := day
		c.now = func() time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
		v, err := c.VerseOfDay(context.Background())
		require.NoError(t, err)
		seen[v.Reference] = true
	}
	assert.Len(t, seen, 3)
}

func TestVerseOfDayRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(quranReply))
	}))
	defer srv.Close()

	c := NewQuranClient(srv.URL)
	v, err := c.VerseOfDay(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, v.Translation)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestVerseOfDay4xxPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewQuranClient(srv.URL)
	_, err := c.VerseOfDay(context.Background())
	assert.True(t, errors.Is(err, domain.ErrTransport))
	// 4xx is permanent: exactly one attempt.
	assert.Equal(t, int32(1), calls.Load())
}

func TestVerseOfDayEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewQuranClient(srv.URL)
	_, err := c.VerseOfDay(context.Background())
	assert.True(t, errors.Is(err, domain.ErrTransport))
}
