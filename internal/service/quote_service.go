package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ylc-be-svc/internal/models"
	"ylc-be-svc/internal/repository"
	"ylc-be-svc/pkg/logger"
)

// ErrQuoteNotFound is returned when no quote has the requested ID
var ErrQuoteNotFound = errors.New("quote not found")

// QuoteDetail is one stored quote with its notification history
type QuoteDetail struct {
	Quote         *models.Quote             `json:"quote"`
	Notifications []*models.NotificationLog `json:"notifications"`
}

// QuoteService defines the interface for operator lookups
type QuoteService interface {
	GetQuoteDetail(ctx context.Context, id uint) (*QuoteDetail, error)
}

// quoteService implements QuoteService
type quoteService struct {
	quoteRepo repository.QuoteRepository
	logRepo   repository.NotificationLogRepository
	logger    *logger.Logger
}

// NewQuoteService creates a new instance of QuoteService
func NewQuoteService(quoteRepo repository.QuoteRepository, logRepo repository.NotificationLogRepository, logger *logger.Logger) QuoteService {
	return &quoteService{
		quoteRepo: quoteRepo,
		logRepo:   logRepo,
		logger:    logger,
	}
}

// GetQuoteDetail loads the quote and every delivery attempt recorded for it
func (s *quoteService) GetQuoteDetail(ctx context.Context, id uint) (*QuoteDetail, error) {
	quote, err := s.quoteRepo.GetQuoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	logs, err := s.logRepo.GetNotificationLogsByQuoteID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification logs: %w", err)
	}
	if logs == nil {
		logs = []*models.NotificationLog{}
	}

	return &QuoteDetail{Quote: quote, Notifications: logs}, nil
}
