package appraisal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxHistory is how many prior chat messages are forwarded upstream.
const MaxHistory = 20

// ChatMessage is one turn of client-side chat history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// historyTurn is a turn as clients send it. Content is either a string or
// an array of content parts.
type historyTurn struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// DecodeHistory parses serialized chat history. Empty input is an empty
// history and anything but a JSON array is an error.
//
// Of the most recent MaxHistory turns, only user and assistant turns with
// text are kept. Turns that cannot be read are skipped, and content-part
// arrays are reduced to their text parts.
func DecodeHistory(data string) ([]ChatMessage, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}

	var all []json.RawMessage
	if err := json.Unmarshal([]byte(data), &all); err != nil {
		return nil, fmt.Errorf("appraisal: decode chat history: %w", err)
	}

	if len(all) > MaxHistory {
		all = all[len(all)-MaxHistory:]
	}

	kept := make([]ChatMessage, 0, len(all))
	for _, raw := range all {
		var turn historyTurn
		if err := json.Unmarshal(raw, &turn); err != nil {
			continue
		}
		if turn.Role != "user" && turn.Role != "assistant" {
			continue
		}

		text := turnText(turn.Content)
		if strings.TrimSpace(text) == "" {
			continue
		}
		kept = append(kept, ChatMessage{Role: turn.Role, Content: text})
	}
	return kept, nil
}

func turnText(content json.RawMessage) string {
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(content, &parts); err != nil {
		return ""
	}

	texts := make([]string, 0, len(parts))
	for _, raw := range parts {
		var p contentPart
		if json.Unmarshal(raw, &p) != nil || p.Type != "text" {
			continue
		}
		if strings.TrimSpace(p.Text) != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}
