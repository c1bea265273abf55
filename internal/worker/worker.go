package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fashionhub/internal/broker"
	"fashionhub/internal/models"
	"fashionhub/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NotificationWorker consumes order events and emits the simulated
// order-confirmation email. No real mail is sent; the formatted message is
// logged.
type NotificationWorker struct {
	consumer *broker.Consumer
	logger   *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer) *NotificationWorker {
	return &NotificationWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}
}

// Start starts consuming until the context is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	return w.consumer.Close()
}

func (w *NotificationWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch base.EventType {
	case models.EventTypeOrderCreated:
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderCreated event: %w", err)
		}
		w.sendConfirmation(&event)

	case models.EventTypeOrderStatusChanged:
		var event models.OrderStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
		}
		w.logger.Info("Order status notification",
			zap.String("order_id", event.OrderID),
			zap.String("status", event.Status))

	case models.EventTypePaymentStatusChanged:
		var event models.PaymentStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal PaymentStatusChanged event: %w", err)
		}
		w.logger.Info("Payment status notification",
			zap.String("order_id", event.OrderID),
			zap.String("payment_status", event.PaymentStatus))

	default:
		w.logger.Debug("Unhandled event type", zap.String("type", base.EventType))
	}

	return nil
}

func (w *NotificationWorker) sendConfirmation(event *models.OrderCreatedEvent) {
	w.logger.Info("Order confirmation email (simulated)",
		zap.String("to", event.Email),
		zap.String("subject", "Order Confirmation - "+event.OrderID),
		zap.String("body", confirmationBody(event)))
	util.NotificationsSentTotal.Inc()
}

func confirmationBody(event *models.OrderCreatedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\nThank you for your order!\n\n", event.UserName)
	fmt.Fprintf(&b, "Order ID: %s\n\nItems:\n", event.OrderID)
	for i, item := range event.Items {
		fmt.Fprintf(&b, "%d. %s\n   Size: %s | Color: %s | Qty: %d\n   Price: $%.2f\n",
			i+1, item.Name, item.Size, item.Color, item.Quantity,
			float64(item.LineTotal())/100)
	}
	fmt.Fprintf(&b, "\nTotal: $%.2f\n\n", float64(event.Total)/100)
	b.WriteString("Your order will be processed manually.\n")
	b.WriteString("We will contact you shortly for payment details.\n\n")
	b.WriteString("Thank you for shopping with us!")
	return b.String()
}
