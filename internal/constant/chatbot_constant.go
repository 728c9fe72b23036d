package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// PersonaNone is the literal the classifier returns when the query
	// carries no instruction to adopt a persona.
	PersonaNone = "none"

	// NoPersonaMessage is the short-circuit reply when a conversation has no
	// stored persona and the current query doesn't set one. Sent without
	// touching retrieval, web search, or generation.
	NoPersonaMessage = `You haven't asked me to act like a character yet. Tell me who to be first, for example: "Act like Harry Potter", then ask your question.`

	// GenerationErrorMessage is returned when the generation capability
	// fails. Must stay non-empty and contain the word "error".
	GenerationErrorMessage = "Sorry, an error occurred while generating the answer. Please try again."

	// IngestAcknowledgeMessage is the immediate reply to a document upload;
	// the real status arrives asynchronously once indexing finishes.
	IngestAcknowledgeMessage = "Got it, I'm reading your document. I'll let you know when it's ready."

	// IngestFailedMessage covers both a failed enqueue and a failed
	// background indexing run.
	IngestFailedMessage = "Sorry, an error occurred while reading your document. Please send it again."

	// ClassifyPersonaPromptV1 constrains the classification capability to a
	// bare entity name or the literal None.
	ClassifyPersonaPromptV1 = `You are a strict text classifier. Decide whether the user's message explicitly asks you to act like, talk like, or pretend to be a specific character or person.

Rules:
- If it does, reply with ONLY the character's name. No punctuation, no explanation.
- If it does not, reply with exactly: None

User message: %s`
)
