package platform

// MetaNodeResponse is the response of a Graph API identity or catalog node read
type MetaNodeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MetaVehicleRequest is the body of POST /{catalog_id}/vehicles
type MetaVehicleRequest struct {
	VehicleID    string           `json:"vehicle_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Price        string           `json:"price"`
	Currency     string           `json:"currency"`
	Make         string           `json:"make"`
	Model        string           `json:"model"`
	Year         int              `json:"year"`
	Mileage      MetaMileage      `json:"mileage"`
	Condition    string           `json:"condition"`
	Availability string           `json:"availability"`
	ExteriorColor string          `json:"exterior_color,omitempty"`
	FuelType     string           `json:"fuel_type,omitempty"`
	Transmission string           `json:"transmission,omitempty"`
	Images       []MetaImage      `json:"images"`
}

// MetaMileage is the structured mileage attribute
type MetaMileage struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// MetaImage is a single catalog item photo
type MetaImage struct {
	URL string `json:"url"`
}

// MetaVehicleResponse is the response of POST /{catalog_id}/vehicles
type MetaVehicleResponse struct {
	ID string `json:"id"`
}

// MetaErrorResponse is the Graph API error envelope
type MetaErrorResponse struct {
	Error MetaErrorDetail `json:"error"`
}

// MetaErrorDetail is the error payload inside the Graph API error envelope
type MetaErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}
