package catalog

type CreateOfferingRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PriceFrom   int64  `json:"price_from" binding:"gte=0"`
	Currency    string `json:"currency"`
	SortOrder   int    `json:"sort_order"`
	Active      *bool  `json:"active"`
}

type UpdateOfferingRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	PriceFrom   *int64  `json:"price_from"`
	Currency    *string `json:"currency"`
	SortOrder   *int    `json:"sort_order"`
	Active      *bool   `json:"active"`
}
