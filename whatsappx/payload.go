package whatsappx

import (
	"encoding/json"

	"github.com/Abraxas-365/wacloud/msgx"
)

// Payload is the body of a webhook POST
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string         `json:"messaging_product"`
	Metadata         Metadata       `json:"metadata"`
	Contacts         []Contact      `json:"contacts,omitempty"`
	Messages         []Message      `json:"messages,omitempty"`
	Statuses         []Status       `json:"statuses,omitempty"`
	Calls            []Call         `json:"calls,omitempty"`
	Errors           []WebhookError `json:"errors,omitempty"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	Profile Profile `json:"profile"`
	WaID    string  `json:"wa_id"`
}

type Profile struct {
	Name string `json:"name"`
}

// WebhookError is the error object found in statuses and values
type WebhookError struct {
	Code      int    `json:"code"`
	Title     string `json:"title"`
	Message   string `json:"message,omitempty"`
	ErrorData *struct {
		Details string `json:"details"`
	} `json:"error_data,omitempty"`
	Href string `json:"href,omitempty"`
}

// Message is an inbound user message. Only the field matching Type is set.
type Message struct {
	From        string               `json:"from"`
	ID          string               `json:"id"`
	Timestamp   string               `json:"timestamp"`
	Type        string               `json:"type"`
	Context     *MessageContext      `json:"context,omitempty"`
	Text        *IncomingText        `json:"text,omitempty"`
	Image       *IncomingMedia       `json:"image,omitempty"`
	Audio       *IncomingMedia       `json:"audio,omitempty"`
	Video       *IncomingMedia       `json:"video,omitempty"`
	Document    *IncomingMedia       `json:"document,omitempty"`
	Sticker     *IncomingMedia       `json:"sticker,omitempty"`
	Location    *IncomingLocation    `json:"location,omitempty"`
	Contacts    []IncomingContact    `json:"contacts,omitempty"`
	Reaction    *IncomingReaction    `json:"reaction,omitempty"`
	Button      *IncomingButton      `json:"button,omitempty"`
	Interactive *IncomingInteractive `json:"interactive,omitempty"`
	Order       json.RawMessage      `json:"order,omitempty"`
	Referral    json.RawMessage      `json:"referral,omitempty"`
	System      json.RawMessage      `json:"system,omitempty"`
	Errors      []WebhookError       `json:"errors,omitempty"`
}

type MessageContext struct {
	From      string `json:"from,omitempty"`
	ID        string `json:"id,omitempty"`
	Forwarded bool   `json:"forwarded,omitempty"`
	Referred  *struct {
		Product struct {
			CatalogID         string `json:"catalog_id"`
			ProductRetailerID string `json:"product_retailer_id"`
		} `json:"product"`
	} `json:"referred_product,omitempty"`
}

type IncomingText struct {
	Body string `json:"body"`
}

type IncomingMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
	Voice    bool   `json:"voice,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

type IncomingLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// IncomingContact reuses the outbound contact parts
type IncomingContact struct {
	Name      msgx.Name          `json:"name"`
	Birthday  string             `json:"birthday,omitempty"`
	Addresses []msgx.Address     `json:"addresses,omitempty"`
	Emails    []msgx.Email       `json:"emails,omitempty"`
	Phones    []msgx.Phone       `json:"phones,omitempty"`
	Org       *msgx.Organization `json:"org,omitempty"`
	URLs      []msgx.URL         `json:"urls,omitempty"`
}

type IncomingReaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji,omitempty"`
}

// IncomingButton is a tap on a template quick reply
type IncomingButton struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

type IncomingInteractive struct {
	Type        string `json:"type"`
	ButtonReply *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"button_reply,omitempty"`
	ListReply *struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	} `json:"list_reply,omitempty"`
	FlowReply *struct {
		Name         string `json:"name,omitempty"`
		Body         string `json:"body,omitempty"`
		ResponseJSON string `json:"response_json"`
	} `json:"nfm_reply,omitempty"`
}

// Status reports delivery progress of an outbound message
type Status struct {
	ID                    string         `json:"id"`
	Status                string         `json:"status"`
	Timestamp             string         `json:"timestamp"`
	RecipientID           string         `json:"recipient_id"`
	Conversation          *Conversation  `json:"conversation,omitempty"`
	Pricing               *Pricing       `json:"pricing,omitempty"`
	Errors                []WebhookError `json:"errors,omitempty"`
	BizOpaqueCallbackData string         `json:"biz_opaque_callback_data,omitempty"`
}

type Conversation struct {
	ID                  string `json:"id"`
	ExpirationTimestamp string `json:"expiration_timestamp,omitempty"`
	Origin              struct {
		Type string `json:"type"`
	} `json:"origin"`
}

type Pricing struct {
	Billable     bool   `json:"billable"`
	PricingModel string `json:"pricing_model"`
	Category     string `json:"category"`
	Type         string `json:"type,omitempty"`
}

// Call is a WhatsApp business calling event
type Call struct {
	ID                    string       `json:"id"`
	From                  string       `json:"from"`
	To                    string       `json:"to"`
	Event                 string       `json:"event"`
	Timestamp             string       `json:"timestamp"`
	Direction             string       `json:"direction,omitempty"`
	Status                string       `json:"status,omitempty"`
	Session               *CallSession `json:"session,omitempty"`
	StartTime             string       `json:"start_time,omitempty"`
	EndTime               string       `json:"end_time,omitempty"`
	Duration              int          `json:"duration,omitempty"`
	BizOpaqueCallbackData string       `json:"biz_opaque_callback_data,omitempty"`
}

type CallSession struct {
	SDPType string `json:"sdp_type"`
	SDP     string `json:"sdp"`
}
