package msgx

import (
	"encoding/json"

	"github.com/Abraxas-365/wacloud/validatex"
)

// MediaSource points at uploaded media by id or at a public link
type MediaSource struct {
	id   string
	link string
}

// MediaID references media uploaded through the media endpoint
func MediaID(id string) MediaSource { return MediaSource{id: id} }

// MediaLink references media by public URL
func MediaLink(url string) MediaSource { return MediaSource{link: url} }

func (s MediaSource) validate() error {
	return validatex.ExactlyOne("media id or link", s.id != "", s.link != "")
}

// Media covers image, video, audio, document and sticker messages
type Media struct {
	kind     Type
	source   MediaSource
	caption  string
	filename string
}

// NewImage builds an image message; caption may be empty
func NewImage(src MediaSource, caption string) (*Media, error) {
	return newMedia(TypeImage, src, caption, "")
}

// NewVideo builds a video message; caption may be empty
func NewVideo(src MediaSource, caption string) (*Media, error) {
	return newMedia(TypeVideo, src, caption, "")
}

func NewAudio(src MediaSource) (*Media, error) {
	return newMedia(TypeAudio, src, "", "")
}

func NewSticker(src MediaSource) (*Media, error) {
	return newMedia(TypeSticker, src, "", "")
}

// NewDocument builds a document message. filename sets the name shown to
// the recipient.
func NewDocument(src MediaSource, caption, filename string) (*Media, error) {
	return newMedia(TypeDocument, src, caption, filename)
}

func newMedia(kind Type, src MediaSource, caption, filename string) (*Media, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	return &Media{kind: kind, source: src, caption: caption, filename: filename}, nil
}

func (m *Media) Type() Type { return m.kind }

func (m *Media) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string `json:"id,omitempty"`
		Link     string `json:"link,omitempty"`
		Caption  string `json:"caption,omitempty"`
		Filename string `json:"filename,omitempty"`
	}{m.source.id, m.source.link, m.caption, m.filename})
}
