package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/makotocarlos/backend-inspecciones-gas/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier publishes appointment lifecycle events to a topic exchange.
// The notification service owns templates and delivery; this side only
// emits.
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPNotifier{conn: conn, channel: channel, exchange: exchange}, nil
}

type appointmentEvent struct {
	Event         string  `json:"event"`
	AppointmentID string  `json:"appointment_id"`
	ClientName    string  `json:"client_name"`
	ClientPhone   string  `json:"client_phone"`
	ClientEmail   *string `json:"client_email,omitempty"`
	ScheduledDate string  `json:"scheduled_date"`
	ScheduledTime string  `json:"scheduled_time"`
	InspectorID   *string `json:"inspector_id,omitempty"`
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
}

func (n *AMQPNotifier) AppointmentEvent(event string, a *models.Appointment) {
	body, err := json.Marshal(appointmentEvent{
		Event:         event,
		AppointmentID: a.ID,
		ClientName:    a.ClientName,
		ClientPhone:   a.ClientPhone,
		ClientEmail:   a.ClientEmail,
		ScheduledDate: a.ScheduledDate,
		ScheduledTime: a.ScheduledTime,
		InspectorID:   a.InspectorID,
		Status:        string(a.Status),
		Timestamp:     time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[AMQPNotifier] marshal failed: %v", err)
		return
	}

	err = n.channel.Publish(n.exchange, event, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Printf("[AMQPNotifier] publish %s failed: %v", event, err)
	}
}

func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
