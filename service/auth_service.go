package service

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"oversight/auth"
	"oversight/models"
	"oversight/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	minUsernameLength = 3
	minPasswordLength = 8
)

type authService struct {
	uowFactory UnitOfWorkFactory
	lockout    LockoutStore
	tokens     TokenIssuer
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(uowFactory UnitOfWorkFactory, lockout LockoutStore, tokens TokenIssuer, metrics *observability.Metrics) AuthService {
	return &authService{
		uowFactory: uowFactory,
		lockout:    lockout,
		tokens:     tokens,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Login checks the lockout, verifies the password, and issues a token. Unknown accounts
// and wrong passwords both count toward the lockout.
func (s *authService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, NewValidationError("email", "please provide a valid email")
	}
	if password == "" {
		return nil, NewValidationError("password", "is required")
	}

	locked, err := s.lockout.Status(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check lockout: %w", err)
	}
	if locked > 0 {
		s.metrics.LoginAttempt("locked")
		return nil, &AccountLockedError{RemainingMinutes: int(math.Ceil(locked.Minutes()))}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, s.failedAttempt(ctx, email)
	}
	if !user.IsActive {
		s.metrics.LoginAttempt("inactive")
		return nil, ErrAccountInactive
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.failedAttempt(ctx, email)
	}

	if err := s.lockout.Reset(ctx, email); err != nil {
		log.WithError(err).WithField("email", email).Warn("Failed to reset login attempts")
	}

	now := s.now().UTC()
	if err := uow.UserRepository().UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	userID := user.ID
	table := "users"
	recordID := user.ID.String()
	if err := uow.AuditRepository().Record(ctx, &models.AuditEntry{
		UserID:     &userID,
		ActionType: models.AuditLogin,
		Action:     "login",
		TableName:  &table,
		RecordID:   &recordID,
		EntityID:   user.EntityID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	result := &models.LoginResult{User: user}
	if user.EntityID != nil {
		entity, err := uow.EntityRepository().GetByID(ctx, *user.EntityID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user entity: %w", err)
		}
		if entity != nil {
			result.Entity = &models.EntitySummary{
				ID:     entity.ID,
				NameEN: entity.NameEN,
				NameAR: entity.NameAR,
				Region: entity.Region,
			}
		}
	}

	identity := models.Identity{UserID: user.ID.String(), Email: user.Email, Role: user.Role}
	if user.Region != nil {
		identity.Region = *user.Region
	}
	result.Token, err = s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.LoginAttempt("success")
	log.WithFields(log.Fields{
		"userID": user.ID,
		"role":   user.Role,
	}).Info("User logged in")
	return result, nil
}

func (s *authService) failedAttempt(ctx context.Context, email string) error {
	s.metrics.LoginAttempt("failure")

	remaining, err := s.lockout.RecordFailure(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	log.WithFields(log.Fields{
		"email":             email,
		"attemptsRemaining": remaining,
	}).Warn("Failed login attempt")
	return &InvalidCredentialsError{AttemptsRemaining: remaining}
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.Username) < minUsernameLength {
		return nil, NewValidationError("username", "must be at least %d characters", minUsernameLength)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, NewValidationError("email", "please provide a valid email")
	}
	if len(req.Password) < minPasswordLength {
		return nil, NewValidationError("password", "must be at least %d characters", minPasswordLength)
	}
	if err := required([2]string{"full_name", req.FullName}); err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, NewValidationError("role", "must be one of %v", models.Roles)
	}
	if req.Region != nil && !models.IsValidRegion(*req.Region) {
		return nil, NewValidationError("region", "must be one of %v", models.Regions)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	exists, err := uow.UserRepository().ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, NewValidationError("email", "user with this email or username already exists")
	}

	user := &models.User{
		Username:     &req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		Region:       req.Region,
		EntityID:     req.EntityID,
		IsActive:     true,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": user.ID,
		"role":   user.Role,
	}).Info("User registered")
	return user, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, notFound("user", userID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}
