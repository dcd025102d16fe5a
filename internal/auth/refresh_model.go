// internal/auth/refresh_model.go
package auth

import "time"

// RefreshToken guarda só o hash do token opaco; o valor bruto vive apenas no
// cookie do cliente. FamilyID agrupa a cadeia de rotação de um mesmo login.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"`
	ClienteID uint   `gorm:"index"`
	FamilyID  string `gorm:"index"`
	Hash      string `gorm:"uniqueIndex"`
	IsAdmin   bool
	ExpiresAt time.Time `gorm:"index"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
