package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/soulease/guidance/internal/adapter/observability"
	"github.com/soulease/guidance/internal/domain"
)

// HadithClient fetches hadith from a sunnah.com-compatible API.
type HadithClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewHadithClient constructs a HadithClient. The API key may be empty; the
// provider then rejects requests and callers see a transport failure.
func NewHadithClient(baseURL, apiKey string) *HadithClient {
	return &HadithClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

type hadithRandomResponse struct {
	Collection   string `json:"collection"`
	HadithNumber string `json:"hadithNumber"`
	Hadith       []struct {
		Lang          string `json:"lang"`
		ChapterTitle  string `json:"chapterTitle"`
		Body          string `json:"body"`
		Grades        []any  `json:"grades"`
		HadithNarrated string `json:"hadithNarrated"`
	} `json:"hadith"`
}

// HadithOfDay fetches a random hadith with its English text.
func (c *HadithClient) HadithOfDay(ctx context.Context) (domain.Hadith, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}
	body, err := getWithRetry(ctx, c.hc, c.baseURL+"/hadiths/random", headers, "hadith")
	if err != nil {
		return domain.Hadith{}, err
	}

	var out hadithRandomResponse
	if err := json.Unmarshal(body, &out); err != nil {
		observability.ContentRequestsTotal.WithLabelValues("hadith", "decode_error").Inc()
		return domain.Hadith{}, fmt.Errorf("%w: hadith decode: %v", domain.ErrTransport, err)
	}

	h := domain.Hadith{
		Collection: out.Collection,
		Reference:  strings.TrimSpace(out.Collection + " " + out.HadithNumber),
	}
	for _, entry := range out.Hadith {
		if entry.Lang != "" && entry.Lang != "en" {
			continue
		}
		h.Text = stripTags(entry.Body)
		h.Narrator = stripTags(entry.HadithNarrated)
		break
	}
	if h.Text == "" {
		observability.ContentRequestsTotal.WithLabelValues("hadith", "empty").Inc()
		return domain.Hadith{}, fmt.Errorf("%w: hadith reply has no english text", domain.ErrTransport)
	}
	observability.ContentRequestsTotal.WithLabelValues("hadith", "ok").Inc()
	return h, nil
}

// stripTags removes the simple HTML markup the hadith API embeds in bodies.
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
