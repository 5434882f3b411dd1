package services

import (
	"errors"
	"time"

	"bothub-api/config"
	"bothub-api/models"
	"bothub-api/repositories"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error)
	DeleteAccount(userID uint) error
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.userRepo.GetByEmail(req.Email)
	if err == nil && existingUser != nil && existingUser.ID != 0 {
		return nil, models.ErrorConflict{Message: "user with this email already exists"}
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("register lookup", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storeError("hash password", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		Image:    req.Image,
		Password: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, storeError("create user", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, storeError("sign token", err)
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
		}
		return nil, storeError("login lookup", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, storeError("sign token", err)
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, storeError("get user", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.EmailTakenByOther(req.Email, userID)
	if err != nil {
		return nil, storeError("email lookup", err)
	}
	if taken {
		return nil, models.ErrorConflict{Message: "email is already in use"}
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Company = req.Company
	if req.Image != "" {
		user.Image = req.Image
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, storeError("update user", err)
	}

	return user, nil
}

func (s *authService) DeleteAccount(userID uint) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return storeError("delete user", err)
	}
	return nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"exp":     now.Add(config.JWTExpiration).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(config.JWTSecret)
}

// storeError logs the underlying persistence failure and hides it
// behind the 500 error type.
func storeError(op string, err error) error {
	log.WithError(err).WithField("op", op).Error("store failure")
	return models.ErrorInternalServer{Message: "server error"}
}
