package msgx

import (
	"encoding/json"

	"github.com/Abraxas-365/wacloud/validatex"
)

// Location shares a pin on the map
type Location struct {
	latitude  float64
	longitude float64
	name      string
	address   string
}

func NewLocation(latitude, longitude float64, name, address string) (*Location, error) {
	err := validatex.First(
		validatex.Range("latitude", latitude, -90, 90),
		validatex.Range("longitude", longitude, -180, 180),
	)
	if err != nil {
		return nil, err
	}
	return &Location{latitude: latitude, longitude: longitude, name: name, address: address}, nil
}

func (l *Location) Type() Type { return TypeLocation }

func (l *Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name,omitempty"`
		Address   string  `json:"address,omitempty"`
	}{l.latitude, l.longitude, l.name, l.address})
}
