package auth

import "github.com/angelmondragon/delivery-admin/internal/form"

// Credentials is the login form.
type Credentials struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

var LoginSchema = form.NewSchema(form.StructRule[Credentials]())

var RegisterSchema = form.NewSchema(form.StructRule[RegisterRequest]())
