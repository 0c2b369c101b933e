package msgx

import (
	"encoding/json"

	"github.com/Abraxas-365/wacloud/validatex"
)

// Type is the message discriminator sent as "type" in the request body
type Type string

const (
	TypeText        Type = "text"
	TypeImage       Type = "image"
	TypeVideo       Type = "video"
	TypeAudio       Type = "audio"
	TypeDocument    Type = "document"
	TypeSticker     Type = "sticker"
	TypeLocation    Type = "location"
	TypeContacts    Type = "contacts"
	TypeReaction    Type = "reaction"
	TypeTemplate    Type = "template"
	TypeInteractive Type = "interactive"
)

// ClientMessage is any outbound message. The concrete builder fixes Type;
// MarshalJSON yields the object placed under that type's key.
type ClientMessage interface {
	Type() Type
	json.Marshaler
}

// Build returns the JSON form of msg
func Build(msg ClientMessage) ([]byte, error) {
	if msg == nil {
		return nil, validatex.Fail("message", "message is required")
	}
	return json.Marshal(msg)
}

// MessageFor picks the message for one broadcast recipient
type MessageFor func(recipient string) (ClientMessage, error)

// Static sends the same message to everyone
func Static(msg ClientMessage) MessageFor {
	return func(string) (ClientMessage, error) {
		return msg, nil
	}
}
