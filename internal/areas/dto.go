package areas

import "github.com/angelmondragon/delivery-admin/pkg/types"

// Area is a priced delivery area inside a place.
type Area struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	AreaCode    string          `json:"area_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       types.Price     `json:"price"`
	PlaceID     int64           `json:"place_id"`
	Place       *types.PlaceRef `json:"place,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// AreaRequest is the JSON body for create and update.
type AreaRequest struct {
	Name        string      `json:"name"`
	AreaCode    string      `json:"area_code,omitempty"`
	Description string      `json:"description,omitempty"`
	Price       types.Price `json:"price"`
	PlaceID     int64       `json:"place_id"`
}
