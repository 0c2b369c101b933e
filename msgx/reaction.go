package msgx

import (
	"encoding/json"

	"github.com/Abraxas-365/wacloud/validatex"
)

// Reaction adds or removes an emoji reaction on a received message
type Reaction struct {
	messageID string
	emoji     string
}

// NewReaction reacts to messageID. An empty emoji removes a previous
// reaction; otherwise it must be exactly one emoji.
func NewReaction(messageID, emoji string) (*Reaction, error) {
	if err := validatex.Required("message id", messageID); err != nil {
		return nil, err
	}
	if emoji != "" {
		if err := validatex.SingleEmoji("emoji", emoji); err != nil {
			return nil, err
		}
	}
	return &Reaction{messageID: messageID, emoji: emoji}, nil
}

func (r *Reaction) Type() Type { return TypeReaction }

func (r *Reaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		MessageID string `json:"message_id"`
		Emoji     string `json:"emoji"`
	}{r.messageID, r.emoji})
}
