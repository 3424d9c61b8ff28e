package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/usecase/dto"
)

const (
	passwordMinLength = 12
	avatarURLExpiry   = 15 * time.Minute
)

// UserUseCase manages accounts and redis-backed sessions.
type UserUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	storage     repository.StorageRepository
	logger      *zap.Logger
	sessionTTL  time.Duration
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	storage repository.StorageRepository,
	logger *zap.Logger,
	sessionTTL time.Duration,
) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		storage:     storage,
		logger:      logger,
		sessionTTL:  sessionTTL,
	}
}

// Register creates an account and opens a first session.
func (uc *UserUseCase) Register(ctx context.Context, req dto.RegisterRequest, userAgent, ipAddress string) (*domain.User, *domain.Session, error) {
	verr := errors.NewValidationError()
	email := normalizeEmail(req.EmailAddress)
	username := strings.TrimSpace(req.Username)

	if username == "" {
		verr.Add("username", "can't be blank")
	}
	validatePassword(req.Password, verr)
	if verr.HasErrors() {
		return nil, nil, verr
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		ID:             uuid.New(),
		EmailAddress:   email,
		Username:       username,
		PasswordDigest: string(digest),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := uc.openSession(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("User registered", zap.String("id", user.ID.String()))
	return user, session, nil
}

// Login verifies credentials and opens a session. Unknown email and bad
// password fail identically.
func (uc *UserUseCase) Login(ctx context.Context, req dto.LoginRequest, userAgent, ipAddress string) (*domain.User, *domain.Session, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(req.EmailAddress))
	if err != nil {
		if err == errors.ErrUserNotFound {
			return nil, nil, errors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(req.Password)); err != nil {
		return nil, nil, errors.ErrInvalidCredentials
	}

	session, err := uc.openSession(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout discards the session; an unknown id is a no-op.
func (uc *UserUseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.sessionRepo.Delete(ctx, sessionID)
}

// Resolve maps a session cookie to its user. Both return values are nil
// when the session is absent or expired.
func (uc *UserUseCase) Resolve(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := uc.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if err == errors.ErrUserNotFound {
			// Orphaned session, the account is gone.
			_ = uc.sessionRepo.Delete(ctx, sessionID)
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the mutable profile fields.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, user *domain.User, req dto.UpdateProfileRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		verr := errors.NewValidationError()
		verr.Add("username", "can't be blank")
		return nil, verr
	}

	user.Username = username
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores the avatar blob and records its key. A previous
// avatar blob is purged best-effort.
func (uc *UserUseCase) UploadAvatar(ctx context.Context, user *domain.User, reader io.Reader, size int64, contentType string) (*domain.User, error) {
	key := fmt.Sprintf("avatars/%s/%s", user.ID, uuid.NewString())
	if err := uc.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, err
	}

	previous := user.AvatarKey
	user.AvatarKey = &key
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if previous != nil {
		if err := uc.storage.Delete(ctx, *previous); err != nil {
			uc.logger.Warn("Failed to purge previous avatar",
				zap.String("object_key", *previous),
				zap.Error(err))
		}
	}
	return user, nil
}

// Profile renders the public view of a user, presigning the avatar when
// one is set.
func (uc *UserUseCase) Profile(ctx context.Context, user *domain.User) (*dto.UserResponse, error) {
	resp := &dto.UserResponse{User: *user}
	if user.AvatarKey != nil {
		url, err := uc.storage.PresignedURL(ctx, *user.AvatarKey, avatarURLExpiry)
		if err != nil {
			uc.logger.Warn("Failed to presign avatar URL", zap.Error(err))
		} else {
			resp.AvatarURL = url
		}
	}
	return resp, nil
}

func (uc *UserUseCase) openSession(ctx context.Context, user *domain.User, userAgent, ipAddress string) (*domain.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	session := &domain.Session{
		ID:        id,
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.sessionRepo.Create(ctx, session, uc.sessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword enforces the minimum length and the four character
// classes.
func validatePassword(password string, verr *errors.ValidationError) {
	if len(password) < passwordMinLength {
		verr.Add("password", "is too short (minimum is 12 characters)")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasLower {
		verr.Add("password", "must contain a lowercase letter")
	}
	if !hasUpper {
		verr.Add("password", "must contain an uppercase letter")
	}
	if !hasDigit {
		verr.Add("password", "must contain a digit")
	}
	if !hasSpecial {
		verr.Add("password", "must contain a special character")
	}
}
