package services

import (
	"testing"

	"github.com/mfcastro/task-manager-api/internal/models"
	"github.com/mfcastro/task-manager-api/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db))
}

func TestAuthService_Register(t *testing.T) {
	service := setupAuthService(t)

	user, err := service.Register(RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "maria@example.com", user.Email)
	require.NotEqual(t, "supersecret", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service := setupAuthService(t)

	_, err := service.Register(RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = service.Register(RegisterInput{
		Name:     "Other Maria",
		Email:    "maria@example.com",
		Password: "anothersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

// racingUserRepo simulates a concurrent register winning the unique index
// race: the email looks free at check time but the insert collides.
type racingUserRepo struct {
	repository.UserRepository
}

func (racingUserRepo) FindByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (racingUserRepo) Create(*models.User) error {
	return gorm.ErrDuplicatedKey
}

func TestAuthService_Register_ConcurrentDuplicateEmail(t *testing.T) {
	service := NewAuthService(racingUserRepo{})

	_, err := service.Register(RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_IsEmailAvailable(t *testing.T) {
	service := setupAuthService(t)

	available, err := service.IsEmailAvailable("maria@example.com")
	require.NoError(t, err)
	require.True(t, available)

	_, err = service.Register(RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	available, err = service.IsEmailAvailable(" maria@example.com ")
	require.NoError(t, err)
	require.False(t, available)
}

func TestAuthService_Register_Validation(t *testing.T) {
	service := setupAuthService(t)

	_, err := service.Register(RegisterInput{
		Name:     "",
		Email:    "not-an-email",
		Password: "short",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	require.Contains(t, fields, "name")
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "password")
}

func TestAuthService_Login(t *testing.T) {
	service := setupAuthService(t)

	registered, err := service.Register(RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	user, err := service.Login(LoginInput{Email: "maria@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, err = service.Login(LoginInput{Email: "maria@example.com", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_GetUser_NotFound(t *testing.T) {
	service := setupAuthService(t)

	_, err := service.GetUser(12345)
	require.ErrorIs(t, err, ErrUserNotFound)
}
