package service

import (
	"context"
	"errors"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, _ := uuid.NewV7()
	user := &model.User{
		ID:       id.String(),
		Username: username,
		Email:    email,
		Password: string(hash),
		Currency: "USD",
	}
	// Duplicate email/username is caught by the unique indexes.
	return s.userRepo.Create(ctx, user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Vague on purpose, don't leak which emails exist.
		return "", "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	return s.generateToken(user.ID)
}

// UpdatePreferences stores the onboarding form.
func (s *AuthService) UpdatePreferences(ctx context.Context, userID string, income, savingsTarget float64, currency string) error {
	if currency == "" {
		currency = "USD"
	}
	return s.userRepo.UpdatePreferences(ctx, userID, income, savingsTarget, currency)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) generateToken(userID string) (string, string, error) {
	secret := viper.GetString("jwt.secret")
	expireHours := viper.GetInt("jwt.expire_hours")

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * time.Duration(expireHours)).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(secret))
	return ss, userID, err
}
