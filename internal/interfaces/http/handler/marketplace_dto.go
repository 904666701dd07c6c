package handler

// ConnectRequest is the request body for linking a branch to a marketplace
type ConnectRequest struct {
	BranchID    string            `json:"branch_id" binding:"required,uuid"`
	Platform    string            `json:"platform" binding:"required"`
	Credentials map[string]string `json:"credentials" binding:"required"`
}

// PublishRequest is the request body for publishing a vehicle to a platform
type PublishRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required,uuid"`
	Platform  string `json:"platform" binding:"required"`
}

// PlatformURI binds the platform path parameter
type PlatformURI struct {
	Platform string `uri:"platform" binding:"required"`
}
