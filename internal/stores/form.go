package stores

import (
	"strings"

	"github.com/angelmondragon/delivery-admin/internal/form"
)

type Form struct {
	Name        string         `json:"name" validate:"required"`
	PlaceID     int64          `json:"place_id" validate:"required"`
	StoreTypeID int64          `json:"store_type_id" validate:"required"`
	Phone       string         `json:"phone"`
	Address     string         `json:"address"`
	StartTime   string         `json:"start_time"`
	EndTime     string         `json:"end_time"`
	Logo        form.FileField `json:"logo"`
	Banner      form.FileField `json:"banner"`
}

var Schema = form.NewSchema(
	form.StructRule[Form](),
	form.ImageFile("logo", func(f Form) form.FileField { return f.Logo }),
	form.ImageFile("banner", func(f Form) form.FileField { return f.Banner }),
)

func FromEntity(s Store) Form {
	return Form{
		Name:        s.Name,
		PlaceID:     s.PlaceID,
		StoreTypeID: s.StoreTypeID,
		Phone:       s.Phone,
		Address:     s.Address,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Logo:        form.ExistingFile(s.Logo),
		Banner:      form.ExistingFile(s.Banner),
	}
}

func (f Form) Input() Input {
	return Input{
		Name:        strings.TrimSpace(f.Name),
		PlaceID:     f.PlaceID,
		StoreTypeID: f.StoreTypeID,
		Phone:       f.Phone,
		Address:     f.Address,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Logo:        f.Logo.File,
		Banner:      f.Banner.File,
	}
}
