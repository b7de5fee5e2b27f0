package models

// Client represents a row of the clients table.
type Client struct {
	ClientID    string `db:"client_id"`
	Name        string `db:"name"`
	ContactName string `db:"contact_name"`
	Email       string `db:"email"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}
