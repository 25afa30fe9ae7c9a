/*
Package recommend turns filtered corpus candidates plus family context into
ranked name recommendations, and reconciles them with suggestions returned
by an external generative service.

Local scoring is pure computation over loaded records. The external service
sits behind the Provider interface; its payloads are untrusted and every
numeric field is clamped or defaulted before use, so a partially bad
suggestion list degrades instead of failing the request.
*/
package recommend

import (
	"context"
	"math"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

// MaxSuggestions caps how many external suggestions are accepted per request.
const MaxSuggestions = 5

// neutralScore is the default for missing or malformed numeric fields.
const neutralScore = 0.5

// Compatibility carries the external service's own scoring of a suggestion.
type Compatibility struct {
	LastName float64 `json:"last_name"`
	Siblings float64 `json:"siblings"`
	Overall  float64 `json:"overall"`
}

// ExternalSuggestion is one name proposed by the generative service, already
// clamped into valid ranges.
type ExternalSuggestion struct {
	Name          string        `json:"name"`
	Reasoning     string        `json:"reasoning"`
	Confidence    float64       `json:"confidence"`
	Compatibility Compatibility `json:"compatibility"`
}

// Provider produces external suggestions for a family context. The transport
// behind it (prompt construction, HTTP, timeouts) is owned by the caller;
// implementations are expected to honor ctx cancellation.
type Provider interface {
	Suggest(ctx context.Context, fc FamilyContext) ([]ExternalSuggestion, error)
}

// rawSuggestion mirrors the wire shape with optional numerics so that
// missing fields are distinguishable from explicit zeros.
type rawSuggestion struct {
	Name          string   `json:"name"`
	Reasoning     string   `json:"reasoning"`
	Confidence    *float64 `json:"confidence"`
	Compatibility *struct {
		LastName *float64 `json:"last_name"`
		Siblings *float64 `json:"siblings"`
		Overall  *float64 `json:"overall"`
	} `json:"compatibility"`
}

type rawPayload struct {
	Suggestions []rawSuggestion `json:"suggestions"`
}

// ParseSuggestions decodes a suggestion payload, accepting either a bare
// array or a {"suggestions": [...]} wrapper. Nameless entries are dropped,
// numeric fields are clamped into [0,1] with missing values defaulting to
// 0.5, and the list is capped at MaxSuggestions.
func ParseSuggestions(data []byte) ([]ExternalSuggestion, error) {
	var raws []rawSuggestion
	if err := json.Unmarshal(data, &raws); err != nil {
		var wrapped rawPayload
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, err
		}
		raws = wrapped.Suggestions
	}

	out := make([]ExternalSuggestion, 0, len(raws))
	for _, r := range raws {
		if r.Name == "" {
			log.Warn("Dropping nameless external suggestion")
			continue
		}
		s := ExternalSuggestion{
			Name:       r.Name,
			Reasoning:  r.Reasoning,
			Confidence: clampScore(r.Confidence),
			Compatibility: Compatibility{
				LastName: neutralScore,
				Siblings: neutralScore,
				Overall:  neutralScore,
			},
		}
		if c := r.Compatibility; c != nil {
			s.Compatibility.LastName = clampScore(c.LastName)
			s.Compatibility.Siblings = clampScore(c.Siblings)
			s.Compatibility.Overall = clampScore(c.Overall)
		}
		out = append(out, s)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out, nil
}

// clamp coerces every numeric field into [0,1]. Reconciliation applies it to
// whatever a Provider hands back, so implementations that bypass
// ParseSuggestions cannot smuggle out-of-range scores into candidates.
func (s *ExternalSuggestion) clamp() {
	s.Confidence = clampValue(s.Confidence)
	s.Compatibility.LastName = clampValue(s.Compatibility.LastName)
	s.Compatibility.Siblings = clampValue(s.Compatibility.Siblings)
	s.Compatibility.Overall = clampValue(s.Compatibility.Overall)
}

// clampScore coerces an optional numeric field into [0,1], defaulting to
// neutral when absent.
func clampScore(v *float64) float64 {
	if v == nil {
		return neutralScore
	}
	return clampValue(*v)
}

func clampValue(v float64) float64 {
	if math.IsNaN(v) {
		return neutralScore
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
