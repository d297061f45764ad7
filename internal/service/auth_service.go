package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/config"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

type AuthService struct {
	repo *repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, cfg: cfg}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

var errInvalidCredentials = &ValidationError{Field: "credentials", Reason: "invalid email or password"}

func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if user.Status != "ACTIVE" {
		return nil, errInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errInvalidCredentials
	}

	expiresAt := time.Now().Add(s.cfg.JWT.AccessTokenExpire)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

func (s *AuthService) CreateUser(req CreateUserRequest) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = entity.RoleStaff
	}
	user := &entity.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "ACTIVE",
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUser(id string) (*entity.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ListUsers() ([]entity.User, error) {
	return s.repo.List()
}
