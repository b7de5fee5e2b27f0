package domain

// Client is the customer a project is billed to.
type Client struct {
	ClientID    string `json:"clientID"`
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}
