package profile

import (
	"strings"

	"github.com/angelmondragon/delivery-admin/internal/form"
)

type Form struct {
	Name   string         `json:"name" validate:"required,min=2"`
	Email  string         `json:"email" validate:"required,email"`
	Phone  string         `json:"phone" validate:"required"`
	Avatar form.FileField `json:"avatar"`
}

var Schema = form.NewSchema(
	form.StructRule[Form](),
	form.ImageFile("avatar", func(f Form) form.FileField { return f.Avatar }),
)

func FromEntity(p Profile) Form {
	return Form{
		Name:   p.Name,
		Email:  p.Email,
		Phone:  p.Phone,
		Avatar: form.ExistingFile(p.Avatar),
	}
}

func (f Form) Input() Input {
	return Input{
		Name:   strings.TrimSpace(f.Name),
		Email:  strings.TrimSpace(f.Email),
		Phone:  strings.TrimSpace(f.Phone),
		Avatar: f.Avatar.File,
	}
}
