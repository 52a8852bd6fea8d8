package models

// Slide is a promotional slideshow entry shown on the storefront.
type Slide struct {
	BaseModel
	Description string `json:"description"`
	Image       string `json:"image"`
}
