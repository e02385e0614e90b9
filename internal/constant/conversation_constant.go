package constant

const (
	MessageRoleUser        = "user"
	MessageRoleAssistant   = "assistant"
	MessageRoleSystemError = "system-error"

	EntryStatusDraft     = "draft"
	EntryStatusFinalized = "finalized"

	// Event bus topics
	TopicReembedEntry   = "REEMBED_ENTRY"
	TopicEntryFinalized = "ENTRY_FINALIZED"

	// Embedding task hints (Gemini distinguishes documents from queries)
	EmbedTaskDocument = "RETRIEVAL_DOCUMENT"
	EmbedTaskQuery    = "RETRIEVAL_QUERY"

	EntryGreetingMessage = "Hi, what's on your mind today?"

	// JournalPersonaPrompt frames every turn. Retrieved context is injected
	// separately by the prompt builder; the persona never changes mid-entry.
	JournalPersonaPrompt = `You are a thoughtful journaling companion. The user is writing a private journal entry as a conversation with you.

Guidelines:
- Respond with warmth and curiosity; ask at most one gentle follow-up question
- Reflect the user's feelings back to them without judging or diagnosing
- When reference material from past entries is provided, weave it in naturally ("Last time you mentioned...") and only when genuinely relevant
- Never invent memories the user has not shared
- Keep responses short: 1-3 sentences`

	// SummaryInstructionPrompt is appended as the final user turn when an
	// entry is being finished. The reply becomes the entry's summary.
	SummaryInstructionPrompt = `Write a brief summary of this journal entry in 1-3 sentences, written in the second person ("You felt...", "You decided..."). Capture the main events, feelings, and any decisions or intentions. Respond with the summary only, no preamble.`
)
