package edubot

import (
	"context"
	"net/http"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

type authEdubot struct {
	api *client.Client
}

func NewAuthEdubot(api *client.Client) repositories.AuthRepository {
	return &authEdubot{api: api}
}

// Login posts the credentials and returns the user with its access token
func (r *authEdubot) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var result models.AuthResult
	body := models.LoginRequest{Email: email, Password: password}
	if err := r.api.Do(ctx, http.MethodPost, "/auth/login", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
