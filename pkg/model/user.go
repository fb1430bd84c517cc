package model

// User roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a dashboard user as returned by the dealer API's login endpoint.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
