package types

// Social holds the public social links configured for the platform.
type Social struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Whatsapp  string `json:"whatsapp"`
	Telegram  string `json:"telegram"`
}

// Support holds the optional customer-support contact channels.
type Support struct {
	Phone    string `json:"support_phone,omitempty"`
	Chat     string `json:"support_chat,omitempty"`
	Email    string `json:"support_email,omitempty"`
	Address  string `json:"support_address,omitempty"`
	Hours    string `json:"support_hours,omitempty"`
	Whatsapp string `json:"support_whatsapp,omitempty"`
}

// Fields lists the support channels in wire order, skipping nothing.
func (s Support) Fields() [][2]string {
	return [][2]string{
		{"support_phone", s.Phone},
		{"support_email", s.Email},
		{"support_chat", s.Chat},
		{"support_address", s.Address},
		{"support_hours", s.Hours},
		{"support_whatsapp", s.Whatsapp},
	}
}

// Fields lists the social links in wire order.
func (s Social) Fields() [][2]string {
	return [][2]string{
		{"facebook", s.Facebook},
		{"instagram", s.Instagram},
		{"twitter", s.Twitter},
		{"whatsapp", s.Whatsapp},
		{"telegram", s.Telegram},
	}
}
