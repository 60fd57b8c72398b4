// Package users persists user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/backoffice/internal/server/models"
)

// Repository is the storage contract of the session core.
//
// Lookups that find nothing return common.ErrorNotFound; Create returns
// common.ErrorAlreadyExists when the email is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.UserInfo, error)
}
