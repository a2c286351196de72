package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler    postHandler
	projectHandler projectHandler
	mediaHandler   mediaHandler
	contactHandler contactHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// DeleteResponse confirms a deletion
type DeleteResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"post deleted successfully"`
	ID      int64  `json:"id"`
}

// StatusResponse is a plain acknowledgement
type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty"`
}
