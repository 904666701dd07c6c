package platform

// WebmotorsAdRequest is the body of POST /api/v1/inventory/ads
type WebmotorsAdRequest struct {
	SellerID     string              `json:"seller_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Price        float64             `json:"price"`
	Make         string              `json:"make"`
	Model        string              `json:"model"`
	Year         int                 `json:"year"`
	Mileage      int                 `json:"mileage"`
	Condition    string              `json:"condition"`
	FuelType     string              `json:"fuel_type,omitempty"`
	Transmission string              `json:"transmission,omitempty"`
	Color        string              `json:"color,omitempty"`
	Photos       []WebmotorsAdPhoto  `json:"photos"`
}

// WebmotorsAdPhoto is a single ad photo
type WebmotorsAdPhoto struct {
	URL string `json:"url"`
}

// WebmotorsAdResponse is the response of POST /api/v1/inventory/ads
type WebmotorsAdResponse struct {
	ID    string `json:"id"`
	AdURL string `json:"ad_url"`
}

// WebmotorsErrorResponse is the error body returned on non-2xx responses
type WebmotorsErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
