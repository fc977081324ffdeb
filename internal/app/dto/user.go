package dto

import (
	"time"

	domainuser "smartrent/internal/domain/user"
)

type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

func MapUserProfile(account *domainuser.User) UserProfile {
	if account == nil {
		return UserProfile{}
	}
	roles := make([]string, 0, len(account.Roles))
	for _, role := range account.Roles {
		roles = append(roles, string(role))
	}
	return UserProfile{
		ID:        string(account.ID),
		Email:     account.Email,
		Name:      account.Name,
		Phone:     account.Phone,
		Roles:     roles,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

func NewAuthResponse(account *domainuser.User, token string) AuthResponse {
	return AuthResponse{User: MapUserProfile(account), Token: token}
}
