package auth

import (
	"time"

	"isletme-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// JWTCustomClaims: oturum token'ı. PageAccess login anında çekilen
// snapshot'tır; admin yetkileri değiştirse bile kullanıcı yeniden login
// olana kadar eski snapshot geçerli kalır (bilinçli tasarım).
type JWTCustomClaims struct {
	UserID     uint              `json:"user_id"`
	Name       string            `json:"name"`
	UserName   string            `json:"user_name"`
	Role       models.UserRole   `json:"role"`
	PageAccess models.PageAccess `json:"page_access"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User, access models.PageAccess) (string, error) {
	claims := &JWTCustomClaims{
		UserID:     user.ID,
		Name:       user.Name,
		UserName:   user.UserName,
		Role:       user.Role,
		PageAccess: access,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // 1 gün
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
