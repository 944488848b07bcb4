package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"clinicare/internal/repository"
)

type RegisterResult struct {
	UserID int    `json:"user_id"`
	Token  string `json:"token"`
}

type UserAuthService interface {
	Register(username, email, password, phone string) (*RegisterResult, error)
	Login(email, password string) (string, error)
}

type userAuthService struct {
	repo repository.UserAuthRepository
}

func NewUserAuthService(repo repository.UserAuthRepository) UserAuthService {
	return &userAuthService{repo: repo}
}

func (s *userAuthService) Register(username, email, password, phone string) (*RegisterResult, error) {
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password cannot be empty")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	user, err := s.repo.CreateUser(username, email, password, phone)
	if err != nil {
		return nil, err
	}

	token, err := signToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{UserID: user.ID, Token: token}, nil
}

func (s *userAuthService) Login(email, password string) (string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("invalid credentials")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	return signToken(user.ID, user.Email)
}

func signToken(userID int, email string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
