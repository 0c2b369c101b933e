package msgx

import (
	"encoding/json"
	"regexp"

	"github.com/Abraxas-365/wacloud/validatex"
)

var birthdayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Name of a shared contact. FormattedName is required together with at
// least one other part.
type Name struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
}

func (n Name) validate() error {
	if err := validatex.Required("formatted name", n.FormattedName); err != nil {
		return err
	}
	if n.FirstName == "" && n.LastName == "" && n.MiddleName == "" && n.Suffix == "" && n.Prefix == "" {
		return validatex.Fail("name", "contact name needs at least one part besides the formatted name")
	}
	return nil
}

type Address struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Type        string `json:"type,omitempty"`
}

type Email struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
}

type Phone struct {
	Phone string `json:"phone,omitempty"`
	WaID  string `json:"wa_id,omitempty"`
	Type  string `json:"type,omitempty"`
}

type Organization struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

type URL struct {
	URL  string `json:"url,omitempty"`
	Type string `json:"type,omitempty"`
}

// Contact is one vCard-like entry of a contacts message
type Contact struct {
	name      Name
	birthday  string
	addresses []Address
	emails    []Email
	phones    []Phone
	org       *Organization
	urls      []URL
}

// ContactPart adds optional data to a Contact
type ContactPart func(*Contact)

// WithBirthday takes a YYYY-MM-DD date
func WithBirthday(date string) ContactPart {
	return func(c *Contact) { c.birthday = date }
}

func WithAddress(a Address) ContactPart {
	return func(c *Contact) { c.addresses = append(c.addresses, a) }
}

func WithEmail(e Email) ContactPart {
	return func(c *Contact) { c.emails = append(c.emails, e) }
}

func WithPhone(p Phone) ContactPart {
	return func(c *Contact) { c.phones = append(c.phones, p) }
}

func WithOrganization(o Organization) ContactPart {
	return func(c *Contact) { c.org = &o }
}

func WithURL(u URL) ContactPart {
	return func(c *Contact) { c.urls = append(c.urls, u) }
}

func NewContact(name Name, parts ...ContactPart) (Contact, error) {
	c := Contact{name: name}
	for _, part := range parts {
		part(&c)
	}

	if err := name.validate(); err != nil {
		return Contact{}, err
	}
	if c.birthday != "" {
		if err := validatex.Pattern("birthday", c.birthday, birthdayPattern, "a YYYY-MM-DD date"); err != nil {
			return Contact{}, err
		}
	}
	return c, nil
}

func (c Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name      Name          `json:"name"`
		Birthday  string        `json:"birthday,omitempty"`
		Addresses []Address     `json:"addresses,omitempty"`
		Emails    []Email       `json:"emails,omitempty"`
		Phones    []Phone       `json:"phones,omitempty"`
		Org       *Organization `json:"org,omitempty"`
		URLs      []URL         `json:"urls,omitempty"`
	}{c.name, c.birthday, c.addresses, c.emails, c.phones, c.org, c.urls})
}

// Contacts shares one or more contacts. It serializes as a JSON array.
type Contacts struct {
	contacts []Contact
}

func NewContacts(contacts ...Contact) (*Contacts, error) {
	if err := validatex.NotEmpty("contacts", len(contacts)); err != nil {
		return nil, err
	}
	for _, c := range contacts {
		if err := c.name.validate(); err != nil {
			return nil, err
		}
	}
	return &Contacts{contacts: contacts}, nil
}

func (c *Contacts) Type() Type { return TypeContacts }

func (c *Contacts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.contacts)
}
