package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/validation"
)

// PasswordResetMailer delivers the reset link to the account owner
type PasswordResetMailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string, expiresAt time.Time) error
}

type AuthService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	Mailer     PasswordResetMailer
	Logger     *logrus.Logger
	AdminEmail string
	ResetURL   string
	ResetTTL   time.Duration

	now func() time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, mailer PasswordResetMailer, logger *logrus.Logger, adminEmail, resetURL string, resetTTL time.Duration) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if resetTTL <= 0 {
		resetTTL = 10 * time.Minute
	}
	return &AuthService{
		Users:      users,
		JWT:        jwt,
		Mailer:     mailer,
		Logger:     logger,
		AdminEmail: adminEmail,
		ResetURL:   resetURL,
		ResetTTL:   resetTTL,
		now:        time.Now,
	}
}

type RegisterInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordInput struct {
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by register and login; the token is also set as a cookie
type AuthResult struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"-"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid("invalid registration", validation.ToDetails(err))
	}
	log := s.Logger.WithField("email", in.Email)

	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		log.Warn("register: email already registered")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.WithError(err).Error("register: lookup failed")
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		Role:      entity.RoleForEmail(in.Email, s.AdminEmail),
		Cart:      []entity.CartItem{},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			log.Warn("register: duplicate email on insert")
			return nil, ErrEmailTaken
		}
		log.WithError(err).Error("register: create user failed")
		return nil, err
	}
	usersRegistered.Add(1)
	log.WithFields(logrus.Fields{"user_id": u.ID.Hex(), "role": u.Role}).Info("user registered")
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid("invalid login", validation.ToDetails(err))
	}
	log := s.Logger.WithField("email", in.Email)

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			loginsFailed.Add(1)
			log.Warn("login: user not found")
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("login: lookup failed")
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, in.Password) {
		loginsFailed.Add(1)
		log.WithField("user_id", u.ID.Hex()).Warn("login: password mismatch")
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// ForgotPassword stores a digest of a fresh reset token and mails the plaintext link.
func (s *AuthService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return invalid("invalid request", validation.ToDetails(err))
	}
	log := s.Logger.WithField("email", in.Email)

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn("forgot password: unknown email")
			return ErrUnknownEmail
		}
		return err
	}

	token, digest, err := helpers.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expires := s.now().Add(s.ResetTTL)
	if err := s.Users.SetResetToken(ctx, u.ID, digest, expires); err != nil {
		log.WithError(err).Error("forgot password: store token failed")
		return err
	}

	link := strings.TrimRight(s.ResetURL, "/") + "/" + token
	if s.Mailer == nil {
		return errors.New("password reset mailer not configured")
	}
	if err := s.Mailer.SendPasswordReset(ctx, u.Email, u.FirstName, link, expires); err != nil {
		log.WithError(err).Error("forgot password: send email failed")
		return fmt.Errorf("send reset email: %w", err)
	}
	log.WithField("user_id", u.ID.Hex()).Info("password reset email queued")
	return nil
}

// ResetPassword consumes the token and sets the new password in one update
func (s *AuthService) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetLink
	}
	if err := validation.Struct(in); err != nil {
		return invalid("invalid request", validation.ToDetails(err))
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u, err := s.Users.ResetPassword(ctx, helpers.DigestResetToken(token), hash, s.now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.Warn("reset password: invalid or expired token")
			return ErrInvalidResetLink
		}
		s.Logger.WithError(err).Error("reset password: update failed")
		return err
	}
	passwordResets.Add(1)
	s.Logger.WithField("user_id", u.ID.Hex()).Info("password reset")
	return nil
}

// Me returns the account behind an authenticated session
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	oid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.Generate(u.ID.Hex(), string(u.Role))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Error("generate token failed")
		return nil, err
	}
	return &AuthResult{Token: token, UserID: u.ID.Hex(), ExpiresAt: exp}, nil
}
