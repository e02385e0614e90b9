package prompt

import (
	"strings"

	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/pkg/llm"
	"ai-journaling-be/pkg/rag"
)

// TurnBuilder assembles the chat history for one conversational turn:
// persona and retrieved reference material up front, then the entry's
// messages so far, then the new user message.
type TurnBuilder struct {
	contextItems []rag.ContextItem
	history      []*entity.Message
	userMessage  string
}

func NewTurnBuilder(contextItems []rag.ContextItem, history []*entity.Message, userMessage string) *TurnBuilder {
	return &TurnBuilder{
		contextItems: contextItems,
		history:      history,
		userMessage:  userMessage,
	}
}

func (b *TurnBuilder) Build() []llm.Message {
	messages := make([]llm.Message, 0, len(b.history)+2)

	messages = append(messages, llm.Message{
		Role:    "system",
		Content: b.buildSystemPrompt(),
	})

	for _, msg := range b.history {
		// Diagnostic messages are for the user's eyes, not the model's.
		if msg.Role == constant.MessageRoleSystemError {
			continue
		}
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    constant.MessageRoleUser,
		Content: b.userMessage,
	})

	return messages
}

func (b *TurnBuilder) buildSystemPrompt() string {
	var prompt strings.Builder

	prompt.WriteString(constant.JournalPersonaPrompt)

	if len(b.contextItems) > 0 {
		prompt.WriteString("\n\n<reference_material>\n")
		prompt.WriteString("Summaries of the user's relevant past entries:\n")
		for _, item := range b.contextItems {
			prompt.WriteString("- ")
			prompt.WriteString(item.Summary)
			prompt.WriteString("\n")
		}
		prompt.WriteString("</reference_material>")
	}

	return prompt.String()
}

// BuildSummaryHistory appends the summary instruction as a closing user
// turn so the model's reply can be stored as the entry summary.
func BuildSummaryHistory(history []*entity.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		if msg.Role == constant.MessageRoleSystemError {
			continue
		}
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, llm.Message{
		Role:    constant.MessageRoleUser,
		Content: constant.SummaryInstructionPrompt,
	})
	return messages
}
