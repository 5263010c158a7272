package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartReservationConsumer connects to RabbitMQ, declares the durable
// reservation.created queue and consumes it forever, appending one
// line per event to logs/reservations.log.  It runs a reconnect loop
// with capped exponential backoff and never returns under normal
// operation; malformed messages are rejected without requeue so the
// service keeps running.
func StartReservationConsumer() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("reservation-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		time.Sleep(time.Second)
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(reservationQueueName, true, false, false, false, nil); err != nil {
		return err
	}
	deliveries, err := ch.Consume(reservationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for d := range deliveries {
		if err := logDelivery(d.Body); err != nil {
			log.Printf("reservation-consumer: %v", err)
			_ = d.Reject(false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// logDelivery appends a single human-readable line for the event.
func logDelivery(body []byte) error {
	var ev ReservationCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	who := ev.GuestName
	if who == "" && ev.UserID != nil {
		who = fmt.Sprintf("user #%d", *ev.UserID)
	}
	if ev.Phone != nil {
		who = strings.TrimSpace(who + " " + *ev.Phone)
	}
	line := fmt.Sprintf("%s reservation #%d table=%d guests=%d slot=%s..%s for %s\n",
		time.Now().UTC().Format(time.RFC3339), ev.ReservationID, ev.TableID,
		ev.GuestsCount, ev.StartsAt, ev.EndsAt, who)

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "reservations.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}
