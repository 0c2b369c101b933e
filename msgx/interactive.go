package msgx

import (
	"encoding/json"

	"github.com/Abraxas-365/wacloud/validatex"
)

// Header of an interactive message: text or a caption-less media item
type Header struct {
	kind  string
	text  string
	media *Media
}

func NewTextHeader(text string) (*Header, error) {
	if err := validatex.MaxLength("header text", text, 60); err != nil {
		return nil, err
	}
	return &Header{kind: "text", text: text}, nil
}

func NewImageHeader(src MediaSource) (*Header, error) {
	return newMediaHeader(TypeImage, src, "")
}

func NewVideoHeader(src MediaSource) (*Header, error) {
	return newMediaHeader(TypeVideo, src, "")
}

func NewDocumentHeader(src MediaSource, filename string) (*Header, error) {
	return newMediaHeader(TypeDocument, src, filename)
}

func newMediaHeader(kind Type, src MediaSource, filename string) (*Header, error) {
	m, err := newMedia(kind, src, "", filename)
	if err != nil {
		return nil, err
	}
	return &Header{kind: string(kind), media: m}, nil
}

func (h *Header) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": h.kind}
	if h.media != nil {
		out[h.kind] = h.media
	} else {
		out["text"] = h.text
	}
	return json.Marshal(out)
}

type Body struct {
	text string
}

func NewBody(text string) (*Body, error) {
	if err := validatex.MaxLength("body text", text, 1024); err != nil {
		return nil, err
	}
	return &Body{text: text}, nil
}

func (b *Body) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Text string `json:"text"`
	}{b.text})
}

type Footer struct {
	text string
}

func NewFooter(text string) (*Footer, error) {
	if err := validatex.MaxLength("footer text", text, 60); err != nil {
		return nil, err
	}
	return &Footer{text: text}, nil
}

func (f *Footer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Text string `json:"text"`
	}{f.text})
}

// InteractiveAction is the action object of an interactive message; its
// kind becomes the interactive "type"
type InteractiveAction interface {
	json.Marshaler
	kind() string
}

// InteractiveParts holds the optional sections around the action
type InteractiveParts struct {
	Header *Header
	Body   *Body
	Footer *Footer
}

type Interactive struct {
	action InteractiveAction
	parts  InteractiveParts
}

func NewInteractive(action InteractiveAction, parts InteractiveParts) (*Interactive, error) {
	if action == nil {
		return nil, validatex.Fail("action", "interactive action is required")
	}

	kind := action.kind()
	switch {
	case parts.Body == nil && kind != kindProduct:
		return nil, validatex.Fail("body", "body is required for %s messages", kind)
	case parts.Header != nil && kind == kindProduct:
		return nil, validatex.Fail("header", "product messages cannot have a header")
	case kind == kindProductList && (parts.Header == nil || parts.Header.kind != "text"):
		return nil, validatex.Fail("header", "product list messages need a text header")
	case kind == kindList && parts.Header != nil && parts.Header.kind != "text":
		return nil, validatex.Fail("header", "list messages only support text headers")
	}
	return &Interactive{action: action, parts: parts}, nil
}

func (i *Interactive) Type() Type { return TypeInteractive }

func (i *Interactive) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string            `json:"type"`
		Header *Header           `json:"header,omitempty"`
		Body   *Body             `json:"body,omitempty"`
		Footer *Footer           `json:"footer,omitempty"`
		Action InteractiveAction `json:"action"`
	}{i.action.kind(), i.parts.Header, i.parts.Body, i.parts.Footer, i.action})
}
