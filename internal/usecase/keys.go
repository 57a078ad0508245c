package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/soulease/guidance/internal/domain"
)

// Store key derivation. Keys are deterministic functions of the semantic
// identity of the request, scoped per session.

func profileKey(session string) string { return "profile:" + session }

func recommendationsKey(session string, p domain.UserProfile) string {
	return "recs:" + session + ":" + profileHash(p)
}

func analysisKey(session, careerTitle string) string {
	return "analysis:" + session + ":" + careerKey(careerTitle)
}

func chatKey(session, personaID string) string {
	return "chat:" + session + ":" + personaID
}

func moodKey(session string) string { return "mood:" + session }

// careerKey sanitizes a career title: lower-cased, whitespace collapsed to
// single hyphens.
func careerKey(title string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(title)))
	return strings.Join(fields, "-")
}

// profileHash hashes the canonical JSON form of the profile. encoding/json
// sorts map keys, so equal profiles always hash identically.
func profileHash(p domain.UserProfile) string {
	b, err := json.Marshal(p)
	if err != nil {
		b = []byte("{}")
	}
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
