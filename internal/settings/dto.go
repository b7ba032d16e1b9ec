package settings

import (
	"github.com/angelmondragon/delivery-admin/pkg/types"
	"github.com/angelmondragon/delivery-admin/pkg/upload"
)

// Setting is the single platform configuration row.
type Setting struct {
	ID          int64  `json:"id"`
	NameAr      string `json:"name_ar"`
	NameEn      string `json:"name_en"`
	Logo        string `json:"logo,omitempty"`
	Banner      string `json:"banner,omitempty"`
	Version     string `json:"version"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	types.Social
	types.Support
	MaintenanceMode    bool   `json:"maintenance_mode"`
	MaintenanceMessage string `json:"maintenance_message,omitempty"`
	CreatedAt          string `json:"createdAt,omitempty"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

// Input is the multipart payload for create and update.
type Input struct {
	NameAr             string
	NameEn             string
	Version            string
	Description        string
	URL                string
	Email              string
	Phone              string
	Address            string
	Social             types.Social
	Support            types.Support
	MaintenanceMode    bool
	MaintenanceMessage string
	Logo               *upload.File
	Banner             *upload.File
}

// MaintenanceRequest is the JSON body of the maintenance toggle.
type MaintenanceRequest struct {
	MaintenanceMode    bool   `json:"maintenance_mode"`
	MaintenanceMessage string `json:"maintenance_message,omitempty"`
}
