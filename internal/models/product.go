package models

// Product is the single record this service owns. Rows are append-only:
// registration inserts exactly one, nothing updates or deletes it.
type Product struct {
	BaseModel
	Name      string `json:"name" gorm:"size:255;not null"`
	Company   string `json:"company" gorm:"size:255;not null"`
	ProductID string `json:"product_id" gorm:"size:255;not null;index"`
	// Registered is set true at creation and never transitions back.
	Registered bool   `json:"registered" gorm:"default:false"`
	QRCodePath string `json:"qr_code_path" gorm:"size:512"`
}
