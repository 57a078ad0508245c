package domain

import (
	"encoding/json"
	"fmt"
)

// PerspectiveDetail is the structured form of an Islamic perspective.
type PerspectiveDetail struct {
	Alignment      string   `json:"alignment"`
	Description    string   `json:"description"`
	Considerations []string `json:"considerations,omitempty"`
}

// IslamicPerspective is a tagged union. Generated payloads deliver the field
// as either a bare string or a {alignment, description, considerations}
// record, and consumers depend on both shapes, so neither is normalized away.
// Exactly one of Text or Structured is set; marshalling re-emits the shape
// that was received.
type IslamicPerspective struct {
	Text       string
	Structured *PerspectiveDetail
}

// TextPerspective wraps a plain string perspective.
func TextPerspective(s string) IslamicPerspective {
	return IslamicPerspective{Text: s}
}

// StructuredPerspective wraps a structured perspective record.
func StructuredPerspective(d PerspectiveDetail) IslamicPerspective {
	return IslamicPerspective{Structured: &d}
}

// IsZero reports whether no perspective was provided in either shape.
func (p IslamicPerspective) IsZero() bool {
	return p.Text == "" && p.Structured == nil
}

// Summary returns a display string regardless of the underlying shape.
func (p IslamicPerspective) Summary() string {
	if p.Structured != nil {
		return p.Structured.Description
	}
	return p.Text
}

// UnmarshalJSON accepts both wire shapes.
func (p *IslamicPerspective) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		p.Text = s
		p.Structured = nil
		return nil
	}
	var d PerspectiveDetail
	if err := json.Unmarshal(b, &d); err != nil {
		return fmt.Errorf("islamic perspective: %w", err)
	}
	p.Text = ""
	p.Structured = &d
	return nil
}

// MarshalJSON re-emits the received shape. A zero value marshals as "".
func (p IslamicPerspective) MarshalJSON() ([]byte, error) {
	if p.Structured != nil {
		return json.Marshal(p.Structured)
	}
	return json.Marshal(p.Text)
}
