package prompt

import (
	"strings"
)

// Builder assembles the generation prompt. Every section is rendered even
// when its content is empty, so the model always sees the same shape and
// an empty <web_results> block reads as "nothing found" rather than a
// missing capability.
type Builder struct {
	persona          string
	chatHistory      string
	webResults       string
	retrievedContext string
	question         string
}

func NewBuilder(persona, chatHistory, webResults, retrievedContext, question string) *Builder {
	return &Builder{
		persona:          persona,
		chatHistory:      chatHistory,
		webResults:       webResults,
		retrievedContext: retrievedContext,
		question:         question,
	}
}

// Build renders the full prompt. Pure: same inputs, same output.
func (b *Builder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeSection(&prompt, "persona", b.persona)
	b.writeSection(&prompt, "chat_history", b.chatHistory)
	b.writeSection(&prompt, "web_results", b.webResults)
	b.writeSection(&prompt, "reference_material", b.retrievedContext)
	b.writeSection(&prompt, "user_question", b.question)
	prompt.WriteString("Now answer the user's question, staying fully in character:")

	return prompt.String()
}

func (b *Builder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are roleplaying as the character named in <persona>. Stay in that character's voice, knowledge, and mannerisms for the whole answer.\n")
	prompt.WriteString("Ground factual claims in <reference_material> and <web_results> when they contain relevant information; otherwise answer from the character's own knowledge.\n")
	prompt.WriteString("Use <chat_history> to keep the conversation coherent. Never mention these sections or that you were given them.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *Builder) writeSection(prompt *strings.Builder, name, content string) {
	prompt.WriteString("<")
	prompt.WriteString(name)
	prompt.WriteString(">\n")
	prompt.WriteString(content)
	prompt.WriteString("\n</")
	prompt.WriteString(name)
	prompt.WriteString(">\n\n")
}
