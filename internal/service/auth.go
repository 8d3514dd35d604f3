package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/models"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("user already exists")
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Company  string
}

// AuthResponse is returned from both register and login.
type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// AuthService registers and authenticates users and lists accounts for
// administrators.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	adminEmail string
	bcryptCost int
}

// NewAuthService creates a new AuthService instance. adminEmail is the
// bootstrap administrator address: registering with it yields the admin
// role, every other registration yields the user role.
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, adminEmail string, bcryptCost int) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		adminEmail: adminEmail,
		bcryptCost: bcryptCost,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleUser
	if in.Email == s.adminEmail {
		role = models.RoleAdmin
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Company:      in.Company,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{
		Message: "user created successfully",
		Token:   token,
		User:    user.Public(),
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{
		Message: "login successful",
		Token:   token,
		User:    user.Public(),
	}, nil
}

// ListUsers returns all regular-role accounts. Other administrators are
// excluded from the listing.
func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindByRole(ctx, models.RoleUser)
}
