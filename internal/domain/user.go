package domain

import "time"

type UserRole string

const (
	UserRoleMember UserRole = "MEMBER"
	UserRoleAdmin  UserRole = "ADMIN"
)

type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// Wallet holds a user's funds. Available is spendable; Frozen is the
// portion earmarked against active rental deposits and cannot be spent
// until released on return.
type Wallet struct {
	UserID    int32     `json:"user_id"`
	Available int64     `json:"available"`
	Frozen    int64     `json:"frozen"`
	UpdatedOn time.Time `json:"updated_on"`
}
