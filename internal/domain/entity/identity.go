package entity

// Identity is the request-scoped projection of a User used for authorization.
// It is the value stored in the session cache.
type Identity struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
	Role      Role   `json:"role"`
}

// IdentityFromUser is the single projection from the persisted entity.
func IdentityFromUser(u *User) Identity {
	return Identity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Confirmed: u.Confirmed,
		Role:      u.Role,
	}
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
