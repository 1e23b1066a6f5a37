package port

import "github.com/ktosdespidoras/roblox/internal/core/domain"

type TokenPayload struct {
	Username string
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(user *domain.User) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
