// Package transport defines request/response DTOs for the catalog HTTP surface.
package transport

// CreatePropertyRequest is the payload for registering a property.
type CreatePropertyRequest struct {
	Reference    string   `json:"reference" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	City         string   `json:"city"`
	Neighborhood string   `json:"neighborhood"`
	Category     string   `json:"category" binding:"required,oneof=SALE RENT"`
	PropertyType string   `json:"propertyType"`
	Price        float64  `json:"price" binding:"gte=0"`
	Beds         int      `json:"beds" binding:"gte=0"`
	Baths        int      `json:"baths" binding:"gte=0"`
	Area         float64  `json:"area" binding:"gte=0"`
	Features     []string `json:"features"`
}

// ListPropertiesQuery holds the supported list filters.
type ListPropertiesQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=SALE RENT"`
	City     string `form:"city"`
}
