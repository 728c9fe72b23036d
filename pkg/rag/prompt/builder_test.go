package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildContainsAllSections(t *testing.T) {
	promptText := NewBuilder(
		"Harry Potter",
		"User: hi\nAssistant: hello",
		"web snippet",
		"chunk one\n\nchunk two",
		"what is a patronus?",
	).Build()

	for _, section := range []string{"persona", "chat_history", "web_results", "reference_material", "user_question"} {
		assert.Contains(t, promptText, "<"+section+">", "missing opening tag")
		assert.Contains(t, promptText, "</"+section+">", "missing closing tag")
	}

	assert.Contains(t, promptText, "Harry Potter")
	assert.Contains(t, promptText, "web snippet")
	assert.Contains(t, promptText, "chunk two")
	assert.Contains(t, promptText, "what is a patronus?")
}

func TestBuildRendersEmptySections(t *testing.T) {
	promptText := NewBuilder("Gandalf", "", "", "", "who are you?").Build()

	// Empty inputs still render their delimiters so the prompt shape is
	// stable regardless of which capabilities produced content.
	assert.Contains(t, promptText, "<web_results>")
	assert.Contains(t, promptText, "<reference_material>")
	assert.Contains(t, promptText, "<chat_history>")
}

func TestBuildIsPure(t *testing.T) {
	build := func() string {
		return NewBuilder("Yoda", "history", "web", "refs", "question").Build()
	}
	assert.Equal(t, build(), build())
}

func TestBuildSectionOrder(t *testing.T) {
	promptText := NewBuilder("p", "h", "w", "r", "q").Build()

	order := []string{"<task>", "<persona>", "<chat_history>", "<web_results>", "<reference_material>", "<user_question>"}
	last := -1
	for _, tag := range order {
		idx := strings.Index(promptText, tag)
		assert.Greater(t, idx, last, "section %s out of order", tag)
		last = idx
	}
}
