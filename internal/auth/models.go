package auth

import "time"

// User is the persisted account. Postgres keeps it in the app_auth schema
// (see db.Connect); the password only ever appears here as a bcrypt hash.
type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Username       string    `gorm:"uniqueIndex:idx_users_username;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex:idx_users_email;not null" json:"email"`
	Phone          string    `json:"phone"`
	HashedPassword string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// PublicUser is the record as returned to clients; it never carries the hash.
type PublicUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Phone:     u.Phone,
		Email:     u.Email,
	}
}
