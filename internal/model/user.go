package model

// User is read-only reference data
type User struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Avatar string `json:"avatar" yaml:"avatar"`
	Role   string `json:"role" yaml:"role"`
}

// FirstName returns the first word of the user's name
func (u *User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}

// Session is the authentication state. CurrentUserID is resolved against the
// user set on every read.
type Session struct {
	Authenticated bool   `json:"isAuthenticated"`
	CurrentUserID string `json:"currentUserId,omitempty"`
}

// Preferences holds UI state. Only DarkMode survives a restart.
type Preferences struct {
	SidebarOpen bool `json:"sidebarOpen"`
	DarkMode    bool `json:"darkMode"`
}
