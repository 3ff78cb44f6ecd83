package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
type User struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	Avatar       string     `json:"avatar"`
	IsVerified   bool       `gorm:"default:false" json:"isVerified"`
	Otp          *string    `gorm:"type:varchar(6)" json:"-"`
	OtpExpiresAt *time.Time `json:"-"`
	ActiveStatus time.Time  `json:"activeStatus"` // 最后在线时间
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// SetPassword hashes the plain password before it is stored.
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// AvatarURL returns the absolute avatar URL, falling back to the default one.
func (u *User) AvatarURL(baseURL string) string {
	if u.Avatar == "" {
		return baseURL + "/public/default-avatar.png"
	}
	return baseURL + "/" + u.Avatar
}

// ClearOtp removes the pending verification code.
func (u *User) ClearOtp() {
	u.Otp = nil
	u.OtpExpiresAt = nil
}
