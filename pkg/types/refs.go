package types

// RoleRef is the role object nested in user payloads.
type RoleRef struct {
	ID      int64  `json:"id"`
	Role    string `json:"role"`
	TitleAr string `json:"title_ar,omitempty"`
	TitleEn string `json:"title_en,omitempty"`
}

// StoreRef is the short store object nested in user payloads.
type StoreRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PlaceRef is the short place object nested in area and store payloads.
type PlaceRef struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}
