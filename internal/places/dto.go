package places

import "github.com/angelmondragon/delivery-admin/pkg/types"

// Place is a delivery zone anchor such as a city district.
type Place struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Latitude   types.Float     `json:"latitude"`
	Longitude  types.Float     `json:"longitude"`
	StoreTypes []StoreTypeLink `json:"storeTypes,omitempty"`
}

// StoreTypeLink is one row of the place/store type join.
type StoreTypeLink struct {
	ID          int64         `json:"id"`
	PlaceID     int64         `json:"place_id"`
	StoreTypeID int64         `json:"store_type_id"`
	StoreType   *StoreTypeRef `json:"storeType,omitempty"`
}

type StoreTypeRef struct {
	ID     int64  `json:"id"`
	NameAr string `json:"name_ar"`
	NameEn string `json:"name_en"`
}

// StoreTypeIDs lists the linked store type ids in server order.
func (p Place) StoreTypeIDs() []int64 {
	ids := make([]int64, 0, len(p.StoreTypes))
	for _, link := range p.StoreTypes {
		ids = append(ids, link.StoreTypeID)
	}
	return ids
}

// PlaceRequest is the JSON body for create and update.
type PlaceRequest struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	StoreTypeIDs []int64 `json:"store_type_ids"`
}
