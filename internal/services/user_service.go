package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/auth"
	"github.com/campus-hub/course-service/internal/events"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/policy"
	"github.com/campus-hub/course-service/internal/repositories"
	"github.com/campus-hub/course-service/internal/storage"
	"github.com/campus-hub/course-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	media     *storage.MediaStore
	tokens    *auth.TokenManager
}

func NewUserService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	media *storage.MediaStore,
	tokens *auth.TokenManager,
) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		media:     media,
		tokens:    tokens,
	}
}

// Register creates a new account with a hashed password. Email and
// username are checked for uniqueness up front; the unique indexes
// still back-stop concurrent registrations.
func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	if taken, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.User().Create(ctx, tx, user)
	})
	if err != nil {
		// Lost a race with a concurrent registration.
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	s.publishEvent(ctx, events.TypeUserRegistered, events.UserRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})

	s.annotateUser(user)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	s.annotateUser(user)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	s.annotateUser(user)
	return user, nil
}

// UploadProfilePic validates and stores a new profile picture for the
// actor, replacing the stored path.
func (s *userService) UploadProfilePic(ctx context.Context, actor *policy.Actor, filename string, size int64, content io.Reader) (*models.User, error) {
	if actor == nil {
		return nil, NewPermissionError(0, 0, "user", "update", "authentication required")
	}

	if errs := s.validator.GetBusinessValidator().ValidateImageUpload(filename, size); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, nil, actor.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	relPath, err := s.media.Save(storage.ProfilePicPrefix, filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store profile picture: %w", err)
	}

	if err := s.repo.User().UpdateProfilePic(ctx, nil, user.ID, relPath); err != nil {
		return nil, fmt.Errorf("failed to update profile picture: %w", err)
	}

	user.ProfilePic = &relPath
	s.annotateUser(user)
	return user, nil
}

func (s *userService) annotateUser(user *models.User) {
	if s.media != nil {
		user.ProfilePicURL = s.media.URL(user.ProfilePic)
	}
}

// publishEvent emits a domain event without failing the operation.
func (s *userService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, &events.Event{Type: eventType, Data: data}); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
