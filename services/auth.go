package services

import (
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stillframe-app/stillframe_api/dto"
	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/services/repositories"
	"github.com/stillframe-app/stillframe_api/shared"
)

// AuthService is the identity provider: account registration, credential checks and
// the middleware that puts an authenticated user id into the request locals. No
// core operation runs without it; there is no fallback identity.
type AuthService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService

	userRepo *repositories.UserRepository
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.userRepo = repositories.NewUserRepository(svc.sqlSvc.Db())
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := svc.userRepo.GetUserByEmail(req.Email); err == nil {
		return nil, shared.NewConflictError(nil, "Email already registered")
	}
	if _, err := svc.userRepo.GetUserByUsername(req.Username); err == nil {
		return nil, shared.NewConflictError(nil, "Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := svc.userRepo.CreateUser(&model.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hash),
		Role:     shared.RolePlayer,
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithField("user_id", user.ID).Info("User registered")

	return &dto.RegisterResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := svc.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError("Invalid credentials")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError("Invalid credentials")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if err := svc.userRepo.TouchLastLogin(user.ID); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	return &dto.LoginResponse{
		UserID:   user.ID,
		Username: user.Username,
		Tokens:   *tokens,
	}, nil
}

func (svc *AuthService) RefreshToken(req dto.RefreshTokenRequest) (*dto.LoginResponse, error) {
	userID, err := svc.jwtSvc.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError("Invalid refresh token")
	}

	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, shared.NewUnauthorizedError("Unknown user")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		UserID:   user.ID,
		Username: user.Username,
		Tokens:   *tokens,
	}, nil
}

func (svc *AuthService) GetUsername(userID string) (string, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// RequiredAuth rejects requests without a valid bearer token and stores the
// authenticated identity in the request locals.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.NewUnauthorizedError(err.Error())
		}

		userID, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.NewUnauthorizedError("Invalid JWT token")
		}

		if userID == "" {
			return shared.NewUnauthorizedError("Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

// RequireRole gates admin surfaces. Must run after RequiredAuth.
func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(shared.UserRole) != role {
			return shared.NewForbiddenError("Insufficient role")
		}
		return c.Next()
	}
}
