package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Store is a tenant account. Orders reference it with a nullable foreign key so
// that deleting a store never deletes its order history.
type Store struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetPassword hashes and stores the given password
func (s *Store) SetPassword(password string) error {
	passwordInBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(passwordInBytes)
	return nil
}

// CheckPassword checks if the provided password matches the store's password
func (s *Store) CheckPassword(providedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(providedPassword))
}
