package service

import (
	"context"
	"strings"
	"time"

	"ksg-support-be/internal/config"
	"ksg-support-be/internal/dto"
	"ksg-support-be/internal/entity"
	"ksg-support-be/internal/repository/specification"
	"ksg-support-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// authService issues identity tokens for the support chat. Login is
// password-less: a name and email are enough, the account is created on
// first contact. Admin rights come from the ADMIN_EMAILS allowlist.
type authService struct {
	uowFactory unitofwork.RepositoryFactory
	authConfig config.AuthConfig
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, authConfig config.AuthConfig) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		authConfig: authConfig,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	isAdmin := s.isAdminEmail(email)
	now := time.Now()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &entity.User{
			Id:        uuid.New(),
			Name:      req.Name,
			Email:     email,
			IsAdmin:   isAdmin,
			CreatedAt: now,
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
	} else if user.Name != req.Name || user.IsAdmin != isAdmin {
		// Returning visitors may change their display name, and the
		// allowlist may have changed since their last login.
		user.Name = req.Name
		user.IsAdmin = isAdmin
		user.UpdatedAt = &now
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	token, err := s.signToken(user, now)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			Id:      user.Id,
			Name:    user.Name,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		},
	}, nil
}

func (s *authService) isAdminEmail(email string) bool {
	for _, candidate := range strings.Split(s.authConfig.AdminEmails, ",") {
		if candidate = strings.ToLower(strings.TrimSpace(candidate)); candidate != "" && candidate == email {
			return true
		}
	}
	return false
}

func (s *authService) signToken(user *entity.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.Email,
		"user_id": user.Id.String(),
		"adm":     user.IsAdmin,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(s.authConfig.JWTExpHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.authConfig.JWTSecret))
}
