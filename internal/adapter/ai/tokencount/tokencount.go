// Package tokencount provides approximate token counting for completion
// calls, used for logs and budget metrics only.
package tokencount

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/soulease/guidance/internal/domain"
)

// Usage holds token counts for one chat-completion call.
type Usage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
}

var (
	encMu    sync.RWMutex
	encCache = map[string]*tiktoken.Tiktoken{}
)

func encodingFor(model string) (*tiktoken.Tiktoken, error) {
	key := normalizeModel(model)
	encMu.RLock()
	enc, ok := encCache[key]
	encMu.RUnlock()
	if ok {
		return enc, nil
	}
	encMu.Lock()
	defer encMu.Unlock()
	if enc, ok := encCache[key]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(key)
	if err != nil {
		// cl100k_base approximates most modern chat models well enough
		// for budget accounting.
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	encCache[key] = enc
	return enc, nil
}

// normalizeModel maps provider model ids (e.g. llama-3.3-70b-versatile) to a
// tiktoken-compatible name.
func normalizeModel(model string) string {
	m := strings.ToLower(model)
	if i := strings.LastIndex(m, "/"); i >= 0 {
		m = m[i+1:]
	}
	switch {
	case strings.Contains(m, "gpt-3.5"):
		return "gpt-3.5-turbo"
	default:
		return "gpt-4"
	}
}

// CalculateUsage counts tokens for a chat request and its completion,
// including the per-message overhead of OpenAI-compatible APIs.
func CalculateUsage(msgs []domain.Message, completion, model string) (Usage, error) {
	enc, err := encodingFor(model)
	if err != nil {
		return Usage{}, err
	}
	const tokensPerMessage = 3
	const tokensPerRole = 1
	prompt := 3 // reply priming
	for _, m := range msgs {
		prompt += tokensPerMessage + tokensPerRole
		prompt += len(enc.Encode(m.Role, nil, nil))
		prompt += len(enc.Encode(m.Content, nil, nil))
	}
	comp := len(enc.Encode(completion, nil, nil))
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: comp,
		TotalTokens:      prompt + comp,
		Model:            model,
	}, nil
}
