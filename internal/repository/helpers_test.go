package repository

import (
	"context"
	"fmt"
	"testing"

	"adhub/internal/database/dbtest"
	"adhub/internal/domain"
	"adhub/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	return dbtest.New(t)
}

func seedUser(t *testing.T, db *gorm.DB, n int) *models.User {
	t.Helper()
	u := &models.User{Email: fmt.Sprintf("user%d@example.com", n), Role: domain.RoleClient}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}
