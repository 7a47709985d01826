package models

const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// UserProfile is the slice of account data the core needs: identity fields
// for the watermark and the account status for entitlement checks.
type UserProfile struct {
	ID          string
	DisplayName string
	Email       string
	Phone       string
	Status      string
}

func (u *UserProfile) Blocked() bool {
	return u.Status == UserStatusBlocked
}
