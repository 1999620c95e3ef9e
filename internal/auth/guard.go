package auth

const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// Caller is the authenticated identity a request runs as.
type Caller struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// Authorize reports whether caller may mutate a resource owned by ownerID.
// For courses ownerID must be the parent bootcamp's owner.
func Authorize(caller Caller, ownerID string) bool {
	if caller.IsAdmin() {
		return true
	}
	return caller.ID != "" && caller.ID == ownerID
}
