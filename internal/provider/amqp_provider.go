// internal/provider/amqp_provider.go
package provider

import (
	"context"
	"encoding/json"

	"github.com/streadway/amqp"
)

// outboundMessage is the wire format handed to the downstream gateway.
type outboundMessage struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// AMQPProvider publishes outbound messages to a durable RabbitMQ queue
// consumed by the actual email/SMS gateway.
type AMQPProvider struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewAMQPProvider(url, queue string) (*AMQPProvider, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPProvider{conn: conn, ch: ch, queue: queue}, nil
}

func (p *AMQPProvider) SendEmail(ctx context.Context, to, subject, html string) error {
	return p.publish(outboundMessage{Channel: "email", To: to, Subject: subject, Body: html})
}

func (p *AMQPProvider) SendSMS(ctx context.Context, to, body string) error {
	return p.publish(outboundMessage{Channel: "sms", To: to, Body: body})
}

func (p *AMQPProvider) publish(msg outboundMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.ch.Publish(
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (p *AMQPProvider) Close() error {
	p.ch.Close()
	return p.conn.Close()
}

var _ SendProvider = (*AMQPProvider)(nil)
