package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	repository "github.com/dipendrakshah/sportshopping-backend/internal/repositories"
	"github.com/dipendrakshah/sportshopping-backend/pkg/sendGrid"
	"github.com/google/uuid"
)

// NotificationService is the sink the order engine hands completed orders to.
// Sends are recorded in the notifications table with their outcome.
type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, recipient string) error
}

type notificationService struct {
	repo         repository.NotificationRepository
	emailService sendGrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, emailService sendGrid.EmailService) NotificationService {
	return &notificationService{repo: repo, emailService: emailService}
}

func (n *notificationService) SendOrderConfirmation(ctx context.Context, order *models.Order, recipient string) error {

	subject := fmt.Sprintf("Order Confirmation - #%d", order.ID)

	content := fmt.Sprintf(
		"Thank you for your order!\n\nOrder ID: #%d\nTotal Amount: $%.2f\nStatus: %s\n",
		order.ID, order.TotalAmount, order.Status)

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: recipient,
		Subject:   subject,
		Content:   content,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := n.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification record: %w", err)
	}

	req := &models.EmailNotificationRequest{
		To:      recipient,
		Subject: subject,
		Content: content,
	}

	if err := n.emailService.Send(ctx, req); err != nil {

		_ = n.repo.UpdateStatus(ctx, notification.ID, models.StatusFailed, err.Error())

		return fmt.Errorf("failed to send email: %w", err)
	}

	if err := n.repo.UpdateStatus(ctx, notification.ID, models.StatusSent, ""); err != nil {
		return fmt.Errorf("notification sent successfully but failed to update notification status: %w", err)
	}

	return nil
}
