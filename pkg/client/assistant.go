package client

import "context"

// ChatMessage is one turn of the assistant conversation. Role is "user" or
// "model".
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// AssistantClient talks to the portfolio chat assistant. The server keeps a
// single conversation.
type AssistantClient struct {
	client *Client
}

// Chat sends message and returns the reply. Provider failures come back as
// an apology text, not as an error.
func (ac *AssistantClient) Chat(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	if err := ac.client.post(ctx, "/assistant/chat", map[string]string{"message": message}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (ac *AssistantClient) History(ctx context.Context) ([]ChatMessage, error) {
	var out []ChatMessage
	if err := ac.client.get(ctx, "/assistant/chat", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset clears the conversation.
func (ac *AssistantClient) Reset(ctx context.Context) error {
	return ac.client.delete(ctx, "/assistant/chat")
}

//Personal.AI order the ending
