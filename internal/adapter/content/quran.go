// Package content implements read-only clients for the third-party Quran and
// Hadith APIs. Both return untrusted data: every field access is defensive
// and missing fields degrade to empty values, exactly as AI responses are
// treated.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/soulease/guidance/internal/adapter/observability"
	"github.com/soulease/guidance/internal/domain"
)

// verseRefs is a small rotation of well-known verses served one per day.
var verseRefs = []string{
	"2:255", "94:5", "13:28", "2:286", "65:3",
	"3:159", "49:13", "17:70", "16:97", "29:69",
}

// QuranClient fetches verses from an alquran.cloud-compatible API.
type QuranClient struct {
	baseURL string
	hc      *http.Client
	now     func() time.Time
}

// NewQuranClient constructs a QuranClient.
func NewQuranClient(baseURL string) *QuranClient {
	return &QuranClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

type quranEditionsResponse struct {
	Data []struct {
		Text          string `json:"text"`
		NumberInSurah int    `json:"numberInSurah"`
		Surah         struct {
			Number      int    `json:"number"`
			EnglishName string `json:"englishName"`
		} `json:"surah"`
		Edition struct {
			Identifier string `json:"identifier"`
		} `json:"edition"`
	} `json:"data"`
}

// VerseOfDay fetches the verse rotated for today, with Arabic text and an
// English translation.
func (c *QuranClient) VerseOfDay(ctx context.Context) (domain.Verse, error) {
	ref := verseRefs[c.now().UTC().YearDay()%len(verseRefs)]
	url := fmt.Sprintf("%s/ayah/%s/editions/quran-uthmani,en.sahih", c.baseURL, ref)

	body, err := getWithRetry(ctx, c.hc, url, nil, "quran")
	if err != nil {
		return domain.Verse{}, err
	}

	var out quranEditionsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		observability.ContentRequestsTotal.WithLabelValues("quran", "decode_error").Inc()
		return domain.Verse{}, fmt.Errorf("%w: quran decode: %v", domain.ErrTransport, err)
	}
	if len(out.Data) == 0 {
		observability.ContentRequestsTotal.WithLabelValues("quran", "empty").Inc()
		return domain.Verse{}, fmt.Errorf("%w: quran reply has no editions", domain.ErrTransport)
	}

	v := domain.Verse{Reference: ref}
	for _, d := range out.Data {
		if v.Surah == "" {
			v.Surah = d.Surah.EnglishName
			v.Number = d.NumberInSurah
		}
		switch d.Edition.Identifier {
		case "quran-uthmani":
			v.ArabicText = d.Text
		default:
			if v.Translation == "" {
				v.Translation = d.Text
			}
		}
	}
	observability.ContentRequestsTotal.WithLabelValues("quran", "ok").Inc()
	return v, nil
}

// getWithRetry issues a GET with exponential backoff on 5xx and network
// failures. 4xx responses are permanent.
func getWithRetry(ctx context.Context, hc *http.Client, url string, headers map[string]string, provider string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := hc.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			slog.Warn("content provider 4xx",
				slog.String("provider", provider),
				slog.Int("status", resp.StatusCode),
				slog.String("url", url))
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		body = b
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = 15 * time.Second
	expo.InitialInterval = 500 * time.Millisecond
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		observability.ContentRequestsTotal.WithLabelValues(provider, "error").Inc()
		return nil, fmt.Errorf("%w: %s fetch: %v", domain.ErrTransport, provider, err)
	}
	return body, nil
}
