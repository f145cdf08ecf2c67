package domain

// User is the authenticated principal as described by the auth service.
type User struct {
	ID       string
	Email    string
	Name     string
	IsActive bool
	Roles    []string
}

// Clone returns a deep copy so callers cannot mutate session-owned state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Roles != nil {
		c.Roles = append([]string(nil), u.Roles...)
	}
	return &c
}
