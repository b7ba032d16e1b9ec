package places

import (
	"strings"

	"github.com/angelmondragon/delivery-admin/internal/form"
)

// Form holds the place dialog fields. Coordinates are optional; bounds are
// inclusive.
type Form struct {
	Name         string   `json:"name" validate:"required"`
	Address      string   `json:"address" validate:"required"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	StoreTypeIDs []int64  `json:"store_type_ids" validate:"min=1"`
}

var Schema = form.NewSchema(form.StructRule[Form]())

func (f Form) Clone() Form {
	out := f
	if f.Latitude != nil {
		lat := *f.Latitude
		out.Latitude = &lat
	}
	if f.Longitude != nil {
		lng := *f.Longitude
		out.Longitude = &lng
	}
	out.StoreTypeIDs = append([]int64(nil), f.StoreTypeIDs...)
	return out
}

func FromEntity(p Place) Form {
	lat, lng := p.Latitude.Float64(), p.Longitude.Float64()
	return Form{
		Name:         p.Name,
		Address:      p.Address,
		Latitude:     &lat,
		Longitude:    &lng,
		StoreTypeIDs: p.StoreTypeIDs(),
	}
}

// Request fills missing coordinates with 0.
func (f Form) Request() PlaceRequest {
	req := PlaceRequest{
		Name:         strings.TrimSpace(f.Name),
		Address:      strings.TrimSpace(f.Address),
		StoreTypeIDs: append([]int64(nil), f.StoreTypeIDs...),
	}
	if f.Latitude != nil {
		req.Latitude = *f.Latitude
	}
	if f.Longitude != nil {
		req.Longitude = *f.Longitude
	}
	return req
}

// Filter keeps places whose name or address contains query, ignoring case.
func Filter(list []Place, query string) []Place {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]Place, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Address), q) {
			out = append(out, p)
		}
	}
	return out
}
