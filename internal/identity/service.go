package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/pkg/apperr"
	"chronoflow-backend/internal/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tokenTTL = 24 * time.Hour

type Service struct {
	DB          *gorm.DB
	TokenSecret string
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperr.Validation("Invalid email address")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperr.Validation("Password must be at least 8 characters with a letter, a number and a symbol")
	}
	displayName := validation.SafeText(in.DisplayName, 1, 120)
	if displayName == "" {
		return nil, apperr.Validation("Display name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Persistence("Registration failed", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Create(&models.UserProfile{
			UserID:      user.ID,
			DisplayName: displayName,
			IconFocusX:  50,
			IconFocusY:  50,
			CreatedAt:   now,
			UpdatedAt:   now,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, apperr.Persistence("Registration failed", err)
	}
	return user, nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, apperr.Validation("Email and password are required")
	}
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperr.Auth("Authentication failed")
		}
		return "", nil, apperr.Persistence("Login failed", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperr.Auth("Authentication failed")
	}

	now := time.Now()
	s.DB.WithContext(ctx).Model(&user).Update("last_sign_in_at", now)

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.TokenSecret))
	if err != nil {
		return "", nil, apperr.Persistence("Login failed", err)
	}
	return token, &user, nil
}

// ResolveToken validates a bearer token and confirms the account still
// exists. Implements middleware.UserResolver.
func (s *Service) ResolveToken(ctx context.Context, tokenString string) (uuid.UUID, string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.TokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, "", apperr.Auth("Invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", apperr.Auth("Invalid token")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", apperr.Auth("Invalid token")
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Select("id", "email").Where("id = ?", userID).First(&user).Error; err != nil {
		return uuid.Nil, "", apperr.Auth("Invalid token")
	}
	return user.ID, user.Email, nil
}

// AccessState is the moderation/membership view of an account.
type AccessState struct {
	Suspended bool
	Reason    *string
	IsMember  bool
}

// GetAccessState reads suspension and member flags. The member flag falls
// back to an active member row for accounts published before the
// user_account_controls grant existed.
func (s *Service) GetAccessState(ctx context.Context, userID uuid.UUID) (AccessState, error) {
	var ctrl models.UserAccountControl
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&ctrl).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AccessState{}, apperr.Persistence("Account lookup failed", err)
	}

	state := AccessState{}
	if err == nil {
		state.Suspended = ctrl.IsSuspended
		state.Reason = ctrl.SuspendReason
		state.IsMember = ctrl.IsMember
	}
	if !state.IsMember {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.Member{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Count(&count).Error; err != nil {
			return AccessState{}, apperr.Persistence("Account lookup failed", err)
		}
		state.IsMember = count > 0
	}
	return state, nil
}

// IsSuspended is the narrow check used by submission flows.
func (s *Service) IsSuspended(ctx context.Context, userID uuid.UUID) (bool, error) {
	var ctrl models.UserAccountControl
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&ctrl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Persistence("Account lookup failed", err)
	}
	return ctrl.IsSuspended, nil
}

// DeleteAccount removes the account and its profile/control rows. Member
// rows and applications are kept (display history survives account removal).
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserAccountControl{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
	if err != nil {
		return apperr.Persistence("Account deletion failed", err)
	}
	return nil
}

// AdminUser is the admin listing row (account + moderation state).
type AdminUser struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastSignInAt  *time.Time `json:"lastSignInAt"`
	Suspended     bool       `json:"suspended"`
	SuspendReason *string    `json:"suspendReason"`
	SuspendedAt   *time.Time `json:"suspendedAt"`
}

func (s *Service) ListUsers(ctx context.Context, page, pageSize int) ([]AdminUser, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 30 {
		pageSize = 7
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Persistence("User listing failed", err)
	}
	var users []models.User
	if err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		return nil, 0, apperr.Persistence("User listing failed", err)
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	controls := make(map[uuid.UUID]models.UserAccountControl, len(ids))
	if len(ids) > 0 {
		var rows []models.UserAccountControl
		if err := s.DB.WithContext(ctx).Where("user_id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, 0, apperr.Persistence("User listing failed", err)
		}
		for _, r := range rows {
			controls[r.UserID] = r
		}
	}

	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		row := AdminUser{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt, LastSignInAt: u.LastSignInAt}
		if ctrl, ok := controls[u.ID]; ok {
			row.Suspended = ctrl.IsSuspended
			row.SuspendReason = ctrl.SuspendReason
			row.SuspendedAt = ctrl.SuspendedAt
		}
		out = append(out, row)
	}
	return out, total, nil
}

// SetSuspension suspends or reinstates an account (idempotent upsert).
func (s *Service) SetSuspension(ctx context.Context, userID uuid.UUID, suspended bool, reason string) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return apperr.Persistence("Suspension update failed", err)
	}
	if count == 0 {
		return apperr.NotFound("User not found")
	}

	now := time.Now()
	ctrl := models.UserAccountControl{
		UserID:      userID,
		IsSuspended: suspended,
		UpdatedAt:   now,
	}
	if suspended {
		ctrl.SuspendedAt = &now
		if reason != "" {
			ctrl.SuspendReason = &reason
		}
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_suspended", "suspend_reason", "suspended_at", "updated_at"}),
	}).Create(&ctrl).Error
	if err != nil {
		return apperr.Persistence("Suspension update failed", err)
	}
	return nil
}
