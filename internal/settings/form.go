package settings

import (
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/pkg/types"
)

type Form struct {
	NameEn             string         `json:"name_en" validate:"required,min=2"`
	NameAr             string         `json:"name_ar" validate:"required,min=2"`
	Version            string         `json:"version" validate:"required"`
	Description        string         `json:"description" validate:"required"`
	URL                string         `json:"url" validate:"required,url"`
	Email              string         `json:"email" validate:"required,email"`
	Phone              string         `json:"phone" validate:"required"`
	Address            string         `json:"address" validate:"required"`
	Social             types.Social   `json:"social"`
	Support            types.Support  `json:"support"`
	MaintenanceMode    bool           `json:"maintenance_mode"`
	MaintenanceMessage string         `json:"maintenance_message"`
	Logo               form.FileField `json:"logo"`
	Banner             form.FileField `json:"banner"`
}

// Schema requires a maintenance message only while maintenance mode is on.
// Switching it off keeps whatever message was typed.
var Schema = form.NewSchema(
	form.StructRule[Form](),
	form.RequiredWhen("maintenance_message",
		func(f Form) bool { return f.MaintenanceMode },
		func(f Form) string { return f.MaintenanceMessage }),
	form.ImageFile("logo", func(f Form) form.FileField { return f.Logo }),
	form.ImageFile("banner", func(f Form) form.FileField { return f.Banner }),
)

func FromEntity(s Setting) Form {
	return Form{
		NameEn:             s.NameEn,
		NameAr:             s.NameAr,
		Version:            s.Version,
		Description:        s.Description,
		URL:                s.URL,
		Email:              s.Email,
		Phone:              s.Phone,
		Address:            s.Address,
		Social:             s.Social,
		Support:            s.Support,
		MaintenanceMode:    s.MaintenanceMode,
		MaintenanceMessage: s.MaintenanceMessage,
		Logo:               form.ExistingFile(s.Logo),
		Banner:             form.ExistingFile(s.Banner),
	}
}

func (f Form) Input() Input {
	return Input{
		NameAr:             f.NameAr,
		NameEn:             f.NameEn,
		Version:            f.Version,
		Description:        f.Description,
		URL:                f.URL,
		Email:              f.Email,
		Phone:              f.Phone,
		Address:            f.Address,
		Social:             f.Social,
		Support:            f.Support,
		MaintenanceMode:    f.MaintenanceMode,
		MaintenanceMessage: f.MaintenanceMessage,
		Logo:               f.Logo.File,
		Banner:             f.Banner.File,
	}
}
