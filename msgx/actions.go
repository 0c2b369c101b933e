package msgx

import (
	"encoding/json"

	"github.com/Abraxas-365/wacloud/validatex"
)

const (
	kindButton          = "button"
	kindList            = "list"
	kindProduct         = "product"
	kindProductList     = "product_list"
	kindCTA             = "cta_url"
	kindFlow            = "flow"
	kindLocationRequest = "location_request_message"
)

// Button is a reply button
type Button struct {
	id    string
	title string
}

func NewButton(id, title string) (Button, error) {
	err := validatex.First(
		validatex.Length("button id", id, 1, 256),
		validatex.NoSurroundingSpace("button id", id),
		validatex.Length("button title", title, 1, 20),
	)
	if err != nil {
		return Button{}, err
	}
	return Button{id: id, title: title}, nil
}

func (b Button) validate() error {
	_, err := NewButton(b.id, b.title)
	return err
}

type ActionButtons struct {
	buttons []Button
}

func NewActionButtons(buttons ...Button) (*ActionButtons, error) {
	ids := make([]string, len(buttons))
	titles := make([]string, len(buttons))
	for i, b := range buttons {
		ids[i], titles[i] = b.id, b.title
	}

	err := validatex.First(
		validatex.Count("reply buttons", len(buttons), 1, 3),
		validateEach(buttons),
		validatex.Unique("button ids", ids),
		validatex.Unique("button titles", titles),
	)
	if err != nil {
		return nil, err
	}
	return &ActionButtons{buttons: buttons}, nil
}

func (a *ActionButtons) kind() string { return kindButton }

func (a *ActionButtons) MarshalJSON() ([]byte, error) {
	type reply struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	type button struct {
		Type  string `json:"type"`
		Reply reply  `json:"reply"`
	}
	out := make([]button, len(a.buttons))
	for i, b := range a.buttons {
		out[i] = button{Type: "reply", Reply: reply{b.id, b.title}}
	}
	return json.Marshal(struct {
		Buttons []button `json:"buttons"`
	}{out})
}

// Row is one selectable entry of a list message
type Row struct {
	id          string
	title       string
	description string
}

func NewRow(id, title, description string) (Row, error) {
	err := validatex.First(
		validatex.Length("row id", id, 1, 200),
		validatex.Length("row title", title, 1, 24),
		validatex.MaxLength("row description", description, 72),
	)
	if err != nil {
		return Row{}, err
	}
	return Row{id: id, title: title, description: description}, nil
}

func (r Row) validate() error {
	_, err := NewRow(r.id, r.title, r.description)
	return err
}

func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	}{r.id, r.title, r.description})
}

type ListSection struct {
	title string
	rows  []Row
}

func NewListSection(title string, rows ...Row) (ListSection, error) {
	err := validatex.First(
		validatex.MaxLength("section title", title, 24),
		validatex.Count("section rows", len(rows), 1, 10),
		validateEach(rows),
	)
	if err != nil {
		return ListSection{}, err
	}
	return ListSection{title: title, rows: rows}, nil
}

func (s ListSection) validate() error {
	_, err := NewListSection(s.title, s.rows...)
	return err
}

func (s ListSection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title string `json:"title,omitempty"`
		Rows  []Row  `json:"rows"`
	}{s.title, s.rows})
}

type ActionList struct {
	button   string
	sections []ListSection
}

// NewActionList builds the action of a list message. button is the label
// of the button that opens the list.
func NewActionList(button string, sections ...ListSection) (*ActionList, error) {
	var ids []string
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.title
		for _, r := range s.rows {
			ids = append(ids, r.id)
		}
	}

	err := validatex.First(
		validatex.Length("list button", button, 1, 20),
		validatex.Count("list sections", len(sections), 1, 10),
		validateEach(sections),
		validatex.Count("list rows", len(ids), 1, 10),
		validatex.Unique("row ids", ids),
		requireSectionTitles(titles),
	)
	if err != nil {
		return nil, err
	}
	return &ActionList{button: button, sections: sections}, nil
}

func (a *ActionList) kind() string { return kindList }

func (a *ActionList) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Button   string        `json:"button"`
		Sections []ListSection `json:"sections"`
	}{a.button, a.sections})
}

// requireSectionTitles enforces titles once there is more than one section
func requireSectionTitles(titles []string) error {
	if len(titles) < 2 {
		return nil
	}
	for _, t := range titles {
		if t == "" {
			return validatex.Fail("section title", "every section needs a title when there is more than one section")
		}
	}
	return nil
}

// validateEach re-checks children, so values not built by their
// constructor (zero values included) are rejected
func validateEach[T interface{ validate() error }](items []T) error {
	for _, item := range items {
		if err := item.validate(); err != nil {
			return err
		}
	}
	return nil
}

type Product struct {
	retailerID string
}

func NewProduct(retailerID string) (Product, error) {
	if err := validatex.Required("product retailer id", retailerID); err != nil {
		return Product{}, err
	}
	return Product{retailerID: retailerID}, nil
}

func (p Product) validate() error {
	_, err := NewProduct(p.retailerID)
	return err
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RetailerID string `json:"product_retailer_id"`
	}{p.retailerID})
}

type ProductSection struct {
	title    string
	products []Product
}

func NewProductSection(title string, products ...Product) (ProductSection, error) {
	err := validatex.First(
		validatex.MaxLength("section title", title, 24),
		validatex.Count("section products", len(products), 1, 30),
		validateEach(products),
	)
	if err != nil {
		return ProductSection{}, err
	}
	return ProductSection{title: title, products: products}, nil
}

func (s ProductSection) validate() error {
	_, err := NewProductSection(s.title, s.products...)
	return err
}

func (s ProductSection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title    string    `json:"title,omitempty"`
		Products []Product `json:"product_items"`
	}{s.title, s.products})
}

// ActionCatalog shows either one product or a multi-product list
type ActionCatalog struct {
	catalogID string
	product   *Product
	sections  []ProductSection
}

func NewActionProduct(catalogID string, product Product) (*ActionCatalog, error) {
	err := validatex.First(
		validatex.Required("catalog id", catalogID),
		product.validate(),
	)
	if err != nil {
		return nil, err
	}
	return &ActionCatalog{catalogID: catalogID, product: &product}, nil
}

func NewActionProductList(catalogID string, sections ...ProductSection) (*ActionCatalog, error) {
	total := 0
	titles := make([]string, len(sections))
	for i, s := range sections {
		total += len(s.products)
		titles[i] = s.title
	}

	err := validatex.First(
		validatex.Required("catalog id", catalogID),
		validatex.Count("product sections", len(sections), 1, 10),
		validateEach(sections),
		validatex.Count("catalog products", total, 1, 30),
		requireSectionTitles(titles),
	)
	if err != nil {
		return nil, err
	}
	return &ActionCatalog{catalogID: catalogID, sections: sections}, nil
}

func (a *ActionCatalog) kind() string {
	if a.product != nil {
		return kindProduct
	}
	return kindProductList
}

func (a *ActionCatalog) MarshalJSON() ([]byte, error) {
	out := struct {
		CatalogID  string           `json:"catalog_id"`
		RetailerID string           `json:"product_retailer_id,omitempty"`
		Sections   []ProductSection `json:"sections,omitempty"`
	}{CatalogID: a.catalogID, Sections: a.sections}
	if a.product != nil {
		out.RetailerID = a.product.retailerID
	}
	return json.Marshal(out)
}

// ActionCTA opens a URL from a button
type ActionCTA struct {
	displayText string
	url         string
}

func NewActionCTA(displayText, url string) (*ActionCTA, error) {
	err := validatex.First(
		validatex.Length("cta display text", displayText, 1, 20),
		validatex.Required("cta url", url),
	)
	if err != nil {
		return nil, err
	}
	return &ActionCTA{displayText: displayText, url: url}, nil
}

func (a *ActionCTA) kind() string { return kindCTA }

func (a *ActionCTA) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name": "cta_url",
		"parameters": map[string]string{
			"display_text": a.displayText,
			"url":          a.url,
		},
	})
}

// FlowAction selects what the flow does when opened
type FlowAction string

const (
	FlowNavigate     FlowAction = "navigate"
	FlowDataExchange FlowAction = "data_exchange"
)

// FlowOptions configures a flow message. Exactly one of ID and Name is set.
// Screen and Data only apply to FlowNavigate.
type FlowOptions struct {
	ID     string
	Name   string
	CTA    string
	Token  string
	Draft  bool
	Action FlowAction
	Screen string
	Data   map[string]any
}

type ActionFlow struct {
	opts FlowOptions
}

func NewActionFlow(opts FlowOptions) (*ActionFlow, error) {
	err := validatex.First(
		validatex.ExactlyOne("flow id or flow name", opts.ID != "", opts.Name != ""),
		validatex.Length("flow cta", opts.CTA, 1, 20),
		validatex.Required("flow token", opts.Token),
	)
	if err != nil {
		return nil, err
	}
	if opts.Action != FlowNavigate && (opts.Screen != "" || len(opts.Data) > 0) {
		return nil, validatex.Fail("flow action", "screen and data require the navigate action")
	}
	return &ActionFlow{opts: opts}, nil
}

func (a *ActionFlow) kind() string { return kindFlow }

func (a *ActionFlow) MarshalJSON() ([]byte, error) {
	params := map[string]any{
		"flow_message_version": "3",
		"flow_token":           a.opts.Token,
		"flow_cta":             a.opts.CTA,
	}
	if a.opts.ID != "" {
		params["flow_id"] = a.opts.ID
	} else {
		params["flow_name"] = a.opts.Name
	}
	if a.opts.Draft {
		params["mode"] = "draft"
	}
	if a.opts.Action != "" {
		params["flow_action"] = a.opts.Action
	}
	if a.opts.Screen != "" {
		payload := map[string]any{"screen": a.opts.Screen}
		if len(a.opts.Data) > 0 {
			payload["data"] = a.opts.Data
		}
		params["flow_action_payload"] = payload
	}
	return json.Marshal(map[string]any{"name": "flow", "parameters": params})
}

// ActionLocationRequest asks the user to share their location
type ActionLocationRequest struct{}

func (ActionLocationRequest) kind() string { return kindLocationRequest }

func (ActionLocationRequest) MarshalJSON() ([]byte, error) {
	return []byte(`{"name":"send_location"}`), nil
}
