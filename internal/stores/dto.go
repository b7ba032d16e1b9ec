package stores

import (
	"github.com/angelmondragon/delivery-admin/pkg/types"
	"github.com/angelmondragon/delivery-admin/pkg/upload"
)

// Store is a vendor on the marketplace.
type Store struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Logo      string `json:"logo,omitempty"`
	Banner    string `json:"banner,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	// DeliveryTime keeps the server's misspelled wire name.
	DeliveryTime *int64          `json:"devlivery_time,omitempty"`
	Rating       *types.Float    `json:"rating,omitempty"`
	IsActive     bool            `json:"is_active"`
	IsVerified   bool            `json:"is_verified"`
	IsFeatured   bool            `json:"is_featured"`
	UserID       int64           `json:"user_id"`
	StoreTypeID  int64           `json:"store_type_id"`
	PlaceID      int64           `json:"place_id"`
	StoreType    *StoreTypeRef   `json:"storeType,omitempty"`
	User         *Owner          `json:"user,omitempty"`
	Place        *types.PlaceRef `json:"place,omitempty"`
}

type StoreTypeRef struct {
	ID     int64  `json:"id"`
	NameAr string `json:"name_ar"`
	NameEn string `json:"name_en"`
}

type Owner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Flags is the partial store returned by the toggle endpoints. Only the
// toggled flag is set.
type Flags struct {
	IsActive   *bool `json:"is_active,omitempty"`
	IsVerified *bool `json:"is_verified,omitempty"`
	IsFeatured *bool `json:"is_featured,omitempty"`
}

// Input is the multipart payload for create and update.
type Input struct {
	Name        string
	PlaceID     int64
	StoreTypeID int64
	Phone       string
	Address     string
	StartTime   string
	EndTime     string
	Logo        *upload.File
	Banner      *upload.File
}

type byTypePayload struct {
	Stores []Store `json:"stores"`
}
