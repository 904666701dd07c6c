package platform

// MercadoLivreUserResponse is the response of GET /users/me
type MercadoLivreUserResponse struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	SiteID   string `json:"site_id"`
}

// MercadoLivreItemRequest is the body of POST /items
type MercadoLivreItemRequest struct {
	Title       string                     `json:"title"`
	CategoryID  string                     `json:"category_id"`
	Price       float64                    `json:"price"`
	CurrencyID  string                     `json:"currency_id"`
	Condition   string                     `json:"condition"`
	SiteID      string                     `json:"site_id"`
	Description string                     `json:"description,omitempty"`
	Pictures    []MercadoLivrePicture      `json:"pictures"`
	Attributes  []MercadoLivreAttribute    `json:"attributes"`
}

// MercadoLivrePicture is a single listing photo
type MercadoLivrePicture struct {
	Source string `json:"source"`
}

// MercadoLivreAttribute is a structured listing attribute (brand, model, year)
type MercadoLivreAttribute struct {
	ID        string `json:"id"`
	ValueName string `json:"value_name"`
}

// MercadoLivreItemResponse is the response of POST /items
type MercadoLivreItemResponse struct {
	ID        string `json:"id"`
	Permalink string `json:"permalink"`
	Status    string `json:"status"`
}

// MercadoLivreErrorResponse is the error body returned on non-2xx responses
type MercadoLivreErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}
