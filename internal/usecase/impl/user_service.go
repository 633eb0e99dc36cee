package impl

import (
	"context"
	"log/slog"

	deliverycontext "medtrack/internal/delivery/context"
	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/domain/service"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser orchestrates the complete user registration process.
func (srv *userService) RegisterUser(ctx context.Context, input *usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}

	if err := srv.userRepo.CreateUser(ctx, newUser, hashedPassword); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("registration failed")
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login orchestrates the user login process.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	loggedInUser, passwordHash, err := srv.userRepo.FindUserByEmail(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	// bcrypt check runs outside any transaction (CPU-bound).
	if !srv.hasher.Check(input.Password, passwordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(loggedInUser.ID)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", loggedInUser.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         loggedInUser,
	}, nil
}

// RefreshToken issues a new access token from a valid refresh token. The
// refresh token itself is not rotated.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	token, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil || !token.Valid {
		return nil, errors.Wrap(domainerrors.ErrSessionExpired, "invalid refresh token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrSessionExpired, "refresh token has no subject")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrSessionExpired, "refresh token subject is not a user id")
	}

	user, err := srv.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user for token refresh")
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// GetProfile retrieves the authenticated user's profile.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

// CompleteOnboarding flips the onboarding-completed flag.
func (srv *userService) CompleteOnboarding(ctx context.Context, userID uuid.UUID) error {
	if err := srv.userRepo.SetOnboardingCompleted(ctx, userID, true); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to complete onboarding")
	}

	srv.log(ctx).Info("Onboarding completed", slog.Any("userID", userID))

	return nil
}

// RegisterDeviceToken stores the device's push target.
func (srv *userService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	if err := srv.userRepo.SetDeviceToken(ctx, userID, token); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to register device token")
	}

	srv.log(ctx).Info("Device token registered", slog.Any("userID", userID))

	return nil
}
