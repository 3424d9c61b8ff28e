package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/place-directory/internal/domain"
	apperrors "github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/usecase"
	"github.com/place-directory/internal/usecase/dto"
)

const testSessionTTL = 30 * 24 * time.Hour

func newUserUseCase(userRepo *MockUserRepository, sessionRepo *MockSessionRepository, storage *MockStorageRepository) *usecase.UserUseCase {
	return usecase.NewUserUseCase(userRepo, sessionRepo, storage, zap.NewNop(), testSessionTTL)
}

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and opens a session", func(t *testing.T) {
		userRepo := &MockUserRepository{}
		sessionRepo := &MockSessionRepository{}
		uc := newUserUseCase(userRepo, sessionRepo, &MockStorageRepository{})

		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.EmailAddress == "casey@example.com" && u.Username == "casey" && u.PasswordDigest != ""
		})).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything, testSessionTTL).Return(nil).Once()

		user, session, err := uc.Register(ctx, dto.RegisterRequest{
			EmailAddress: "  Casey@Example.COM ",
			Username:     "casey",
			Password:     "Sup3r-secure-pw!",
		}, "test-agent", "127.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, "casey@example.com", user.EmailAddress)
		require.NotNil(t, session)
		assert.Len(t, session.ID, 64)
		assert.Equal(t, user.ID, session.UserID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte("Sup3r-secure-pw!")))
		userRepo.AssertExpectations(t)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("rejects weak passwords with one message per missing class", func(t *testing.T) {
		uc := newUserUseCase(&MockUserRepository{}, &MockSessionRepository{}, &MockStorageRepository{})

		_, _, err := uc.Register(ctx, dto.RegisterRequest{
			EmailAddress: "casey@example.com",
			Username:     "casey",
			Password:     "alllowercase",
		}, "", "")

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		messages := verr.Fields["password"]
		assert.Len(t, messages, 3)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		uc := newUserUseCase(&MockUserRepository{}, &MockSessionRepository{}, &MockStorageRepository{})

		_, _, err := uc.Register(ctx, dto.RegisterRequest{
			EmailAddress: "casey@example.com",
			Username:     "casey",
			Password:     "Ab1!",
		}, "", "")

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["password"][0], "too short")
	})

	t.Run("propagates a duplicate email", func(t *testing.T) {
		userRepo := &MockUserRepository{}
		uc := newUserUseCase(userRepo, &MockSessionRepository{}, &MockStorageRepository{})

		userRepo.On("Create", ctx, mock.Anything).Return(apperrors.ErrEmailTaken).Once()

		_, _, err := uc.Register(ctx, dto.RegisterRequest{
			EmailAddress: "casey@example.com",
			Username:     "casey",
			Password:     "Sup3r-secure-pw!",
		}, "", "")

		assert.Equal(t, apperrors.ErrEmailTaken, err)
	})
}

func TestUserUseCase_Login(t *testing.T) {
	ctx := context.Background()

	digest, err := bcrypt.GenerateFromPassword([]byte("Sup3r-secure-pw!"), bcrypt.MinCost)
	require.NoError(t, err)
	saved := &domain.User{
		ID:             uuid.New(),
		EmailAddress:   "casey@example.com",
		PasswordDigest: string(digest),
	}

	t.Run("valid credentials open a session", func(t *testing.T) {
		userRepo := &MockUserRepository{}
		sessionRepo := &MockSessionRepository{}
		uc := newUserUseCase(userRepo, sessionRepo, &MockStorageRepository{})

		userRepo.On("GetByEmail", ctx, "casey@example.com").Return(saved, nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything, testSessionTTL).Return(nil).Once()

		user, session, err := uc.Login(ctx, dto.LoginRequest{
			EmailAddress: "Casey@Example.com",
			Password:     "Sup3r-secure-pw!",
		}, "test-agent", "127.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, saved.ID, user.ID)
		assert.Equal(t, saved.ID, session.UserID)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		userRepo := &MockUserRepository{}
		uc := newUserUseCase(userRepo, &MockSessionRepository{}, &MockStorageRepository{})

		userRepo.On("GetByEmail", ctx, "casey@example.com").Return(saved, nil).Once()
		_, _, errWrongPassword := uc.Login(ctx, dto.LoginRequest{
			EmailAddress: "casey@example.com",
			Password:     "not-the-password",
		}, "", "")

		userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound).Once()
		_, _, errUnknownEmail := uc.Login(ctx, dto.LoginRequest{
			EmailAddress: "nobody@example.com",
			Password:     "Sup3r-secure-pw!",
		}, "", "")

		assert.Equal(t, apperrors.ErrInvalidCredentials, errWrongPassword)
		assert.Equal(t, apperrors.ErrInvalidCredentials, errUnknownEmail)
	})
}

func TestUserUseCase_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("maps a live session to its user", func(t *testing.T) {
		userRepo := &MockUserRepository{}
		sessionRepo := &MockSessionRepository{}
		uc := newUserUseCase(userRepo, sessionRepo, &MockStorageRepository{})

		userID := uuid.New()
		sessionRepo.On("Get", ctx, "abc123").
			Return(&domain.Session{ID: "abc123", UserID: userID}, nil).Once()
		userRepo.On("GetByID", ctx, userID).
			Return(&domain.User{ID: userID}, nil).Once()

		user, err := uc.Resolve(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
	})

	t.Run("expired session resolves to nil without error", func(t *testing.T) {
		sessionRepo := &MockSessionRepository{}
		uc := newUserUseCase(&MockUserRepository{}, sessionRepo, &MockStorageRepository{})

		sessionRepo.On("Get", ctx, "gone").Return(nil, nil).Once()

		user, err := uc.Resolve(ctx, "gone")

		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("orphaned session is discarded", func(t *testing.T) {
		userRepo := &MockUserRepository{}
		sessionRepo := &MockSessionRepository{}
		uc := newUserUseCase(userRepo, sessionRepo, &MockStorageRepository{})

		userID := uuid.New()
		sessionRepo.On("Get", ctx, "orphan").
			Return(&domain.Session{ID: "orphan", UserID: userID}, nil).Once()
		userRepo.On("GetByID", ctx, userID).Return(nil, apperrors.ErrUserNotFound).Once()
		sessionRepo.On("Delete", ctx, "orphan").Return(nil).Once()

		user, err := uc.Resolve(ctx, "orphan")

		require.NoError(t, err)
		assert.Nil(t, user)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("empty cookie resolves to nil", func(t *testing.T) {
		uc := newUserUseCase(&MockUserRepository{}, &MockSessionRepository{}, &MockStorageRepository{})

		user, err := uc.Resolve(ctx, "")

		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserUseCase_UploadAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the blob and purges the previous one", func(t *testing.T) {
		userRepo := &MockUserRepository{}
		storage := &MockStorageRepository{}
		uc := newUserUseCase(userRepo, &MockSessionRepository{}, storage)

		oldKey := "avatars/old"
		user := &domain.User{ID: uuid.New(), AvatarKey: &oldKey}

		storage.On("Upload", ctx, mock.Anything, mock.Anything, int64(128), "image/png").Return(nil).Once()
		userRepo.On("Update", ctx, user).Return(nil).Once()
		storage.On("Delete", ctx, "avatars/old").Return(nil).Once()

		updated, err := uc.UploadAvatar(ctx, user, nil, 128, "image/png")

		require.NoError(t, err)
		require.NotNil(t, updated.AvatarKey)
		assert.NotEqual(t, "avatars/old", *updated.AvatarKey)
		storage.AssertExpectations(t)
	})
}
