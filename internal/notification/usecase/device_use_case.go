package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
)

var platforms = map[string]bool{"ios": true, "android": true, "web": true}

type PushTokenRepository interface {
	Upsert(ctx context.Context, t domain.PushToken) error
	Delete(ctx context.Context, token string) error
}

type NotificationLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

type RegisterTokenInput struct {
	UserID   string
	Token    string
	Platform string
}

func (in RegisterTokenInput) validate() error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(in.UserID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "userId", Message: "required field"})
	}
	if strings.TrimSpace(in.Token) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "token", Message: "required field"})
	}
	if !platforms[strings.ToLower(in.Platform)] {
		details = append(details, apperrors.ValidationDetail{Field: "platform", Message: "must be one of ios, android, web"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

// DeviceUseCase manages the device tokens and the in-app feed of a user.
type DeviceUseCase struct {
	tokens        PushTokenRepository
	notifications NotificationLister
	logger        *zap.Logger
}

func NewDeviceUseCase(tokens PushTokenRepository, notifications NotificationLister, logger *zap.Logger) *DeviceUseCase {
	return &DeviceUseCase{tokens: tokens, notifications: notifications, logger: logger}
}

func (uc *DeviceUseCase) Register(ctx context.Context, in RegisterTokenInput) (*domain.PushToken, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	token := domain.PushToken{
		Token:     strings.TrimSpace(in.Token),
		UserID:    strings.TrimSpace(in.UserID),
		Platform:  strings.ToLower(in.Platform),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.tokens.Upsert(ctx, token); err != nil {
		return nil, apperrors.NewInternalError("failed to register push token", err)
	}

	uc.logger.Info("push token registered", zap.String("userId", token.UserID), zap.String("platform", token.Platform))
	return &token, nil
}

func (uc *DeviceUseCase) Unregister(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{Field: "token", Message: "required field"})
	}
	if err := uc.tokens.Delete(ctx, token); err != nil {
		return apperrors.NewInternalError("failed to remove push token", err)
	}
	return nil
}

// Feed lists the newest in-app notifications of userID.
func (uc *DeviceUseCase) Feed(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{Field: "userId", Message: "required field"})
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.notifications.ListByUser(ctx, userID, limit)
}
