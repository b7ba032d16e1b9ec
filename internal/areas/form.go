package areas

import (
	"strings"

	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/pkg/types"
)

// Form holds the area dialog fields. Price is a pointer so an empty input
// reads as missing rather than zero.
type Form struct {
	Name        string   `json:"name" validate:"required"`
	AreaCode    string   `json:"area_code"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	PlaceID     int64    `json:"place_id" validate:"required"`
}

var Schema = form.NewSchema(form.StructRule[Form]())

func (f Form) Clone() Form {
	out := f
	if f.Price != nil {
		price := *f.Price
		out.Price = &price
	}
	return out
}

func FromEntity(a Area) Form {
	price := a.Price.InexactFloat64()
	return Form{
		Name:        a.Name,
		AreaCode:    a.AreaCode,
		Description: a.Description,
		Price:       &price,
		PlaceID:     a.PlaceID,
	}
}

func (f Form) Request() AreaRequest {
	req := AreaRequest{
		Name:        strings.TrimSpace(f.Name),
		AreaCode:    strings.TrimSpace(f.AreaCode),
		Description: strings.TrimSpace(f.Description),
		PlaceID:     f.PlaceID,
	}
	if f.Price != nil {
		req.Price = types.NewPrice(*f.Price)
	}
	return req
}
