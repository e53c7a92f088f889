package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPlanning(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"bare array", `["Buy balloons","Order cake","Send invites"]`, []string{"Buy balloons", "Order cake", "Send invites"}},
		{"fenced", "```json\n[\"Book venue\", \"Hire DJ\"]\n```", []string{"Book venue", "Hire DJ"}},
		{"uppercase marker", "JSON [\"Pack bags\"]", []string{"Pack bags"}},
		{"empty array", "[]", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			assert.Equal(t, ModePlanning, got.Mode)
			assert.Equal(t, tt.want, got.Suggestions)

			reply := got.Reply()
			assert.Empty(t, reply.Text)
			assert.Equal(t, tt.want, reply.Suggestions)
		})
	}
}

func TestClassifyConversation(t *testing.T) {
	inputs := []string{
		"",
		"Sure! What kind of party are you planning?",
		`{"tasks": ["a", "b"]}`,
		`["Buy balloons", 3]`,
		"null",
		"```json\n[\"unterminated\"\n```",
	}
	for _, raw := range inputs {
		got := Classify(raw)
		assert.Equal(t, ModeConversation, got.Mode, "input %q", raw)
		assert.Equal(t, raw, got.Text, "raw text is kept unstripped")
		assert.Nil(t, got.Reply().Suggestions)
	}
}

func TestClassifyStripsWordJSONInsideItems(t *testing.T) {
	// The marker is removed everywhere before parsing, including inside strings.
	got := Classify(`["Update json config"]`)
	assert.Equal(t, ModePlanning, got.Mode)
	assert.Equal(t, []string{"Update  config"}, got.Suggestions)
}

func TestReplyJSONKeepsEmptyPlan(t *testing.T) {
	plan, err := json.Marshal(Classify("[]").Reply())
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"","suggestions":[]}`, string(plan))

	conversation, err := json.Marshal(Classify("Hello!").Reply())
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Hello!"}`, string(conversation))

	var decoded Reply
	require.NoError(t, json.Unmarshal(plan, &decoded))
	assert.Equal(t, []string{}, decoded.Suggestions)
}
