package repository

import (
	"context"
	"time"

	"ylc-be-svc/internal/models"

	"gorm.io/gorm"
)

// QuoteRepository defines the interface for quote data operations
type QuoteRepository interface {
	CreateQuote(ctx context.Context, quote *models.Quote) error
	GetQuoteByID(ctx context.Context, id uint) (*models.Quote, error)
	ListQuotes(ctx context.Context, from, to *time.Time) ([]*models.Quote, error)
}

// quoteRepository implements QuoteRepository
type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new instance of QuoteRepository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{
		db: db,
	}
}

// CreateQuote inserts one quote row; the assigned ID is written back to quote.ID
func (r *quoteRepository) CreateQuote(ctx context.Context, quote *models.Quote) error {
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(quote).Error
}

// GetQuoteByID retrieves a quote record by ID
func (r *quoteRepository) GetQuoteByID(ctx context.Context, id uint) (*models.Quote, error) {
	var quote models.Quote

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&quote).Error
	if err != nil {
		return nil, err
	}

	return &quote, nil
}

// ListQuotes retrieves quotes created within the optional [from, to) window, newest first
func (r *quoteRepository) ListQuotes(ctx context.Context, from, to *time.Time) ([]*models.Quote, error) {
	var quotes []*models.Quote

	query := r.db.WithContext(ctx).Model(&models.Quote{})
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at < ?", *to)
	}

	if err := query.Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
		return nil, err
	}

	return quotes, nil
}
