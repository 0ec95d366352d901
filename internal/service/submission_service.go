package service

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"ylc-be-svc/internal/models"
	"ylc-be-svc/internal/repository"
	"ylc-be-svc/pkg/logger"
)

// notifyTimeout bounds both sends of one submission
const notifyTimeout = 2 * time.Minute

// SubmissionService defines the interface for the lead submission pipeline
type SubmissionService interface {
	Submit(ctx context.Context, fields map[string]string, files []*multipart.FileHeader) (*SubmitResult, error)
	// Wait blocks until background notifications finish or ctx is done
	Wait(ctx context.Context) error
}

// SubmitResult is returned once the quote row exists
type SubmitResult struct {
	QuoteID uint                 `json:"quote_id"`
	Images  []models.StoredImage `json:"images"`
}

// SubmissionOptions tunes the pipeline
type SubmissionOptions struct {
	// AsyncNotify detaches email dispatch from the request once the quote is stored
	AsyncNotify bool
}

// submissionService implements SubmissionService
type submissionService struct {
	intake     FileIntake
	quoteRepo  repository.QuoteRepository
	composer   NotificationComposer
	dispatcher NotificationDispatcher
	options    SubmissionOptions
	logger     *logger.Logger
	wg         sync.WaitGroup
}

// NewSubmissionService creates a new instance of SubmissionService
func NewSubmissionService(
	intake FileIntake,
	quoteRepo repository.QuoteRepository,
	composer NotificationComposer,
	dispatcher NotificationDispatcher,
	options SubmissionOptions,
	logger *logger.Logger,
) SubmissionService {
	return &submissionService{
		intake:     intake,
		quoteRepo:  quoteRepo,
		composer:   composer,
		dispatcher: dispatcher,
		options:    options,
		logger:     logger,
	}
}

// Submit runs intake, validation and the insert. Notification failures never reach the caller.
func (s *submissionService) Submit(ctx context.Context, fields map[string]string, files []*multipart.FileHeader) (*SubmitResult, error) {
	images, err := s.intake.Accept(ctx, files)
	if err != nil {
		s.logger.WithError(err).WithField("files", len(files)).Warn("Rejected uploaded files")
		return nil, err
	}

	req, err := ValidateSubmission(fields)
	if err != nil {
		s.logger.WithError(err).Warn("Submission failed validation")
		s.intake.Discard(ctx, images)
		return nil, err
	}
	req.Images = images

	quote := &models.Quote{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Service:     req.Service,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Description: req.Description,
		Location:    req.Location,
		CreatedAt:   time.Now(),
	}
	quote.SetImages(images)

	if err := s.quoteRepo.CreateQuote(ctx, quote); err != nil {
		// stored images stay on disk; they are listed so they can be cleaned up by hand
		orphans := make([]string, 0, len(images))
		for _, img := range images {
			orphans = append(orphans, img.StoredName)
		}
		s.logger.WithError(err).WithField("orphaned_files", orphans).Error("Failed to save quote")
		return nil, &PersistenceError{Op: "insert quote", Err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"quote_id": quote.ID,
		"service":  req.Service,
		"images":   len(images),
	}).Info("Quote saved")

	if s.options.AsyncNotify {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.notify(context.WithoutCancel(ctx), req, quote.ID)
		}()
	} else {
		s.notify(ctx, req, quote.ID)
	}

	return &SubmitResult{QuoteID: quote.ID, Images: images}, nil
}

// notify composes and sends the operator then the customer message. Each send is independent.
func (s *submissionService) notify(ctx context.Context, req *SubmissionRequest, quoteID uint) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(map[string]interface{}{
				"quote_id": quoteID,
				"panic":    r,
			}).Error("Notification pipeline panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	composition, err := s.composer.Compose(ctx, req, quoteID, req.Images)
	if err != nil {
		s.logger.WithError(err).WithField("quote_id", quoteID).Error("Failed to compose notifications")
	}
	if composition == nil {
		return
	}

	operator := s.dispatcher.Dispatch(ctx, quoteID, models.NotificationKindOperator, "", composition.Operator)
	customer := DispatchResult{Kind: models.NotificationKindCustomer, Status: models.NotificationStatusFailed}
	if err == nil {
		customer = s.dispatcher.Dispatch(ctx, quoteID, models.NotificationKindCustomer, composition.ReferenceCode, composition.Customer)
	}

	s.logger.WithFields(map[string]interface{}{
		"quote_id":        quoteID,
		"operator_status": operator.Status,
		"customer_status": customer.Status,
	}).Info("Notifications processed")
}

// Wait blocks until background notifications finish or ctx is done
func (s *submissionService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
