package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/mkozhevin/retail_orders/internal/events"
	"github.com/mkozhevin/retail_orders/internal/models"
)

// Worker consumes notification events and sends mail. Delivery is fire
// and forget: a failed send is logged and the message is still committed.
type Worker struct {
	Brokers    []string
	GroupID    string
	Sender     Sender
	AdminEmail string
	Log        *slog.Logger
}

func (w *Worker) Run(ctx context.Context) {
	topics := []string{
		events.TopicUserEvents,
		events.TopicOrderEvents,
		events.TopicPriceEvents,
	}
	for _, topic := range topics {
		go w.consume(ctx, topic)
	}
	<-ctx.Done()
}

func (w *Worker) consume(ctx context.Context, topic string) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: w.Brokers,
		GroupID: w.GroupID,
		Topic:   topic,
	})
	defer r.Close()

	l := w.Log.With("worker", "notify", "topic", topic)
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			l.Error("read failed", "error", err)
			continue
		}
		if err := w.handle(msg.Value); err != nil {
			l.Error("notification not delivered", "error", err)
		}
	}
}

func (w *Worker) handle(payload []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	switch head.Type {
	case events.TypeUserRegistered:
		var e events.UserRegistered
		if err := json.Unmarshal(payload, &e); err != nil {
			return err
		}
		subject := fmt.Sprintf("Password Reset Token for %s", e.Email)
		return w.Sender.Send([]string{e.Email}, subject, e.Token)

	case events.TypeOrderStateChange:
		var e events.OrderStateChanged
		if err := json.Unmarshal(payload, &e); err != nil {
			return err
		}
		label := models.StateLabels[e.State]
		if label == "" {
			label = e.State
		}
		body := fmt.Sprintf("Заказ %d получил статус %s.", e.OrderID, label)
		return w.Sender.Send([]string{e.Email}, "Обновление статуса заказа", body)

	case events.TypeNewOrderAdmin:
		var e events.NewOrderAdmin
		if err := json.Unmarshal(payload, &e); err != nil {
			return err
		}
		subject := fmt.Sprintf("Новый заказ от %s", e.UserName)
		body := fmt.Sprintf("Пользователем %s оформлен новый заказ %d.", e.UserName, e.OrderID)
		return w.Sender.Send([]string{w.AdminEmail}, subject, body)

	case events.TypePriceListUpdated:
		var e events.PriceListUpdated
		if err := json.Unmarshal(payload, &e); err != nil {
			return err
		}
		subject := fmt.Sprintf("%s: обновление прайса", e.ShopName)
		body := fmt.Sprintf("Пользователь %s сообщил о новом прайс-листе магазина %s", e.Email, e.ShopName)
		return w.Sender.Send([]string{w.AdminEmail}, subject, body)
	}

	return fmt.Errorf("unknown event type %q", head.Type)
}
