package storetypes

import "github.com/angelmondragon/delivery-admin/pkg/upload"

// StoreType is a category of store, e.g. restaurants or pharmacies.
type StoreType struct {
	ID            int64  `json:"id"`
	NameAr        string `json:"name_ar"`
	NameEn        string `json:"name_en"`
	DescriptionAr string `json:"description_ar,omitempty"`
	DescriptionEn string `json:"description_en,omitempty"`
	Image         string `json:"image,omitempty"`
}

// Input is the multipart payload for create and update.
type Input struct {
	NameAr        string
	NameEn        string
	DescriptionAr string
	DescriptionEn string
	// Image is sent only when a new file was picked.
	Image *upload.File
}
