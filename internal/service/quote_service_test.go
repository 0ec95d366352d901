package service

import (
	"context"
	"errors"
	"testing"

	"ylc-be-svc/internal/models"
)

func TestGetQuoteDetail(t *testing.T) {
	repo := &fakeQuoteRepo{}
	logs := &fakeLogRepo{}
	ctx := context.Background()

	if err := repo.CreateQuote(ctx, &models.Quote{Name: "Jane Doe", Service: "Deck"}); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	logs.CreateNotificationLog(ctx, &models.NotificationLog{QuoteID: 1, Kind: models.NotificationKindOperator, Status: models.NotificationStatusSent})
	logs.CreateNotificationLog(ctx, &models.NotificationLog{QuoteID: 2, Kind: models.NotificationKindOperator, Status: models.NotificationStatusSent})
	logs.CreateNotificationLog(ctx, &models.NotificationLog{QuoteID: 1, Kind: models.NotificationKindCustomer, Status: models.NotificationStatusSkipped})

	detail, err := NewQuoteService(repo, logs, testLogger()).GetQuoteDetail(ctx, 1)
	if err != nil {
		t.Fatalf("GetQuoteDetail: %v", err)
	}
	if detail.Quote.ID != 1 || detail.Quote.Name != "Jane Doe" {
		t.Errorf("quote = %+v", detail.Quote)
	}
	if len(detail.Notifications) != 2 || detail.Notifications[1].Kind != models.NotificationKindCustomer {
		t.Errorf("notifications = %+v", detail.Notifications)
	}
}

func TestGetQuoteDetailWithoutNotifications(t *testing.T) {
	repo := &fakeQuoteRepo{}
	repo.CreateQuote(context.Background(), &models.Quote{Name: "Jane Doe"})

	detail, err := NewQuoteService(repo, &fakeLogRepo{}, testLogger()).GetQuoteDetail(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetQuoteDetail: %v", err)
	}
	if detail.Notifications == nil || len(detail.Notifications) != 0 {
		t.Errorf("notifications = %#v, want empty list", detail.Notifications)
	}
}

func TestGetQuoteDetailNotFound(t *testing.T) {
	_, err := NewQuoteService(&fakeQuoteRepo{}, &fakeLogRepo{}, testLogger()).GetQuoteDetail(context.Background(), 99)
	if !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound, got %v", err)
	}
}
