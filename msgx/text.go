package msgx

import (
	"encoding/json"

	"github.com/Abraxas-365/wacloud/validatex"
)

// Text is a plain text message
type Text struct {
	body       string
	previewURL bool
}

// NewText validates body (at most 4096 characters). previewURL asks WhatsApp
// to render a preview for the first link in body.
func NewText(body string, previewURL bool) (*Text, error) {
	if err := validatex.MaxLength("text body", body, 4096); err != nil {
		return nil, err
	}
	return &Text{body: body, previewURL: previewURL}, nil
}

func (t *Text) Type() Type { return TypeText }

func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Body       string `json:"body"`
		PreviewURL bool   `json:"preview_url,omitempty"`
	}{t.body, t.previewURL})
}
