package core

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Mode tells how an assistant reply should be rendered.
type Mode string

const (
	ModeConversation Mode = "conversation"
	ModePlanning     Mode = "planning"
)

// Reply is the assistant's answer: free text, or a list of task suggestions with empty text.
type Reply struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// MarshalJSON keeps an empty plan as "suggestions": [] so it stays distinct from a
// conversation reply, which has no suggestions key.
func (r Reply) MarshalJSON() ([]byte, error) {
	type wire struct {
		Text        string    `json:"text"`
		Suggestions *[]string `json:"suggestions,omitempty"`
	}
	w := wire{Text: r.Text}
	if r.Suggestions != nil {
		w.Suggestions = &r.Suggestions
	}
	return json.Marshal(w)
}

// Classification is the tagged result of reading a raw model response.
type Classification struct {
	Mode        Mode
	Text        string
	Suggestions []string
}

// Reply converts the classification to the wire shape.
func (c Classification) Reply() Reply {
	if c.Mode == ModePlanning {
		return Reply{Text: "", Suggestions: c.Suggestions}
	}
	return Reply{Text: c.Text}
}

var fenceMarkers = regexp.MustCompile("(?i)```json|```|json")

// parsePlan returns the response as a list of strings when, after removing code fences
// and the word "json", it is a JSON array whose elements are all strings.
func parsePlan(raw string) ([]string, bool) {
	cleaned := strings.TrimSpace(fenceMarkers.ReplaceAllString(raw, ""))

	var items []any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil || items == nil {
		return nil, false
	}
	plan := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		plan = append(plan, s)
	}
	return plan, true
}

// Classify reads a raw model response. Anything that is not a clean string array is
// conversation, and keeps the raw unstripped text.
func Classify(raw string) Classification {
	if plan, ok := parsePlan(raw); ok {
		return Classification{Mode: ModePlanning, Suggestions: plan}
	}
	return Classification{Mode: ModeConversation, Text: raw}
}
