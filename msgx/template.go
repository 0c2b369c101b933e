package msgx

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/Abraxas-365/wacloud/validatex"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Language selects the translation of a template
type Language struct {
	code string
}

func NewLanguage(code string) (Language, error) {
	if err := validatex.Required("language code", code); err != nil {
		return Language{}, err
	}
	return Language{code: code}, nil
}

func (l Language) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code   string `json:"code"`
		Policy string `json:"policy"`
	}{l.code, "deterministic"})
}

// Currency is a localized amount; amount1000 is the value times 1000
type Currency struct {
	fallback   string
	code       string
	amount1000 int64
}

func NewCurrency(amount1000 int64, code, fallback string) (Currency, error) {
	err := validatex.First(
		validatex.Pattern("currency code", code, currencyPattern, "an ISO 4217 code"),
		validatex.Required("currency fallback", fallback),
	)
	if err != nil {
		return Currency{}, err
	}
	return Currency{fallback: fallback, code: code, amount1000: amount1000}, nil
}

func (c Currency) validate() error {
	_, err := NewCurrency(c.amount1000, c.code, c.fallback)
	return err
}

func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		FallbackValue string `json:"fallback_value"`
		Code          string `json:"code"`
		Amount1000    int64  `json:"amount_1000"`
	}{c.fallback, c.code, c.amount1000})
}

// DateTime is rendered by WhatsApp from its fallback value
type DateTime struct {
	fallback string
}

func NewDateTime(fallback string) (DateTime, error) {
	if err := validatex.Required("date time fallback", fallback); err != nil {
		return DateTime{}, err
	}
	return DateTime{fallback: fallback}, nil
}

func (d DateTime) validate() error {
	_, err := NewDateTime(d.fallback)
	return err
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		FallbackValue string `json:"fallback_value"`
	}{d.fallback})
}

// Parameter fills one variable of a header or body component
type Parameter struct {
	kind     string
	name     string
	text     string
	currency *Currency
	dateTime *DateTime
	media    *Media
	location *Location
}

func TextParameter(text string) Parameter {
	return Parameter{kind: "text", text: text}
}

func CurrencyParameter(c Currency) Parameter {
	return Parameter{kind: "currency", currency: &c}
}

func DateTimeParameter(d DateTime) Parameter {
	return Parameter{kind: "date_time", dateTime: &d}
}

// MediaParameter wraps an image, video or document for a template header.
// A nil media yields a parameter NewTemplate rejects.
func MediaParameter(m *Media) Parameter {
	if m == nil {
		return Parameter{}
	}
	return Parameter{kind: string(m.Type()), media: m}
}

func LocationParameter(l *Location) Parameter {
	if l == nil {
		return Parameter{}
	}
	return Parameter{kind: "location", location: l}
}

func (p Parameter) validate() error {
	switch p.kind {
	case "text", "location", string(TypeImage), string(TypeVideo), string(TypeDocument):
		return nil
	case "currency":
		return p.currency.validate()
	case "date_time":
		return p.dateTime.validate()
	case "":
		return validatex.Fail("template parameter", "parameter has no type")
	default:
		return validatex.Fail("template parameter", "unsupported parameter type %q", p.kind)
	}
}

// Named sets parameter_name for templates that use named variables
func (p Parameter) Named(name string) Parameter {
	p.name = name
	return p
}

func (p Parameter) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": p.kind}
	if p.name != "" {
		out["parameter_name"] = p.name
	}
	switch {
	case p.currency != nil:
		out["currency"] = p.currency
	case p.dateTime != nil:
		out["date_time"] = p.dateTime
	case p.media != nil:
		out[p.kind] = p.media
	case p.location != nil:
		out["location"] = p.location
	default:
		out["text"] = p.text
	}
	return json.Marshal(out)
}

// ButtonParameter fills a template button. Each one becomes its own
// "button" component, indexed by position.
type ButtonParameter struct {
	subType string
	param   map[string]any
}

func QuickReplyButton(payload string) ButtonParameter {
	return ButtonParameter{subType: "quick_reply", param: map[string]any{"type": "payload", "payload": payload}}
}

// URLButton fills the dynamic suffix of a URL button
func URLButton(suffix string) ButtonParameter {
	return ButtonParameter{subType: "url", param: map[string]any{"type": "text", "text": suffix}}
}

func CopyCodeButton(coupon string) ButtonParameter {
	return ButtonParameter{subType: "copy_code", param: map[string]any{"type": "coupon_code", "coupon_code": coupon}}
}

// FlowButton passes a token and optional initial data to a flow button
func FlowButton(token string, data map[string]any) ButtonParameter {
	action := map[string]any{"flow_token": token}
	if len(data) > 0 {
		action["flow_action_data"] = data
	}
	return ButtonParameter{subType: "flow", param: map[string]any{"type": "action", "action": action}}
}

type componentKind string

const (
	componentHeader  componentKind = "header"
	componentBody    componentKind = "body"
	componentButtons componentKind = "button"
)

// TemplateComponent is a header, a body or a group of buttons
type TemplateComponent struct {
	kind    componentKind
	params  []Parameter
	buttons []ButtonParameter
}

func TemplateHeader(params ...Parameter) TemplateComponent {
	return TemplateComponent{kind: componentHeader, params: params}
}

func TemplateBody(params ...Parameter) TemplateComponent {
	return TemplateComponent{kind: componentBody, params: params}
}

func TemplateButtons(buttons ...ButtonParameter) TemplateComponent {
	return TemplateComponent{kind: componentButtons, buttons: buttons}
}

// Template sends a pre-approved message template
type Template struct {
	name       string
	language   Language
	components []TemplateComponent
}

func NewTemplate(name string, language Language, components ...TemplateComponent) (*Template, error) {
	if err := validatex.Required("template name", name); err != nil {
		return nil, err
	}
	if err := validatex.Required("template language", language.code); err != nil {
		return nil, err
	}

	var headers, bodies, buttons int
	for _, c := range components {
		for _, p := range c.params {
			if err := p.validate(); err != nil {
				return nil, err
			}
		}

		switch c.kind {
		case componentHeader:
			headers++
			for _, p := range c.params {
				if p.kind == "text" {
					if err := validatex.MaxLength("header parameter", p.text, 60); err != nil {
						return nil, err
					}
				}
			}
		case componentBody:
			bodies++
		case componentButtons:
			buttons += len(c.buttons)
			for _, b := range c.buttons {
				if b.subType == "" {
					return nil, validatex.Fail("template button", "button parameter has no sub type")
				}
				if coupon, ok := b.param["coupon_code"].(string); ok {
					if err := validatex.MaxLength("coupon code", coupon, 15); err != nil {
						return nil, err
					}
				}
			}
		default:
			return nil, validatex.Fail("template component", "unknown component type %q", c.kind)
		}
	}

	err := validatex.First(
		validatex.Count("template headers", headers, 0, 1),
		validatex.Count("template bodies", bodies, 0, 1),
		validatex.Count("template buttons", buttons, 0, 10),
	)
	if err != nil {
		return nil, err
	}
	return &Template{name: name, language: language, components: components}, nil
}

func (t *Template) Type() Type { return TypeTemplate }

type componentWire struct {
	Type       string `json:"type"`
	SubType    string `json:"sub_type,omitempty"`
	Index      string `json:"index,omitempty"`
	Parameters []any  `json:"parameters,omitempty"`
}

func (t *Template) MarshalJSON() ([]byte, error) {
	var wire []componentWire
	index := 0
	for _, c := range t.components {
		if c.kind == componentButtons {
			for _, b := range c.buttons {
				wire = append(wire, componentWire{
					Type:       string(componentButtons),
					SubType:    b.subType,
					Index:      strconv.Itoa(index),
					Parameters: []any{b.param},
				})
				index++
			}
			continue
		}
		params := make([]any, len(c.params))
		for i, p := range c.params {
			params[i] = p
		}
		wire = append(wire, componentWire{Type: string(c.kind), Parameters: params})
	}

	return json.Marshal(struct {
		Name       string          `json:"name"`
		Language   Language        `json:"language"`
		Components []componentWire `json:"components,omitempty"`
	}{t.name, t.language, wire})
}
