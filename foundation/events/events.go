package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher emits confirmed-order events over NATS for downstream
// consumers (kitchen display, analytics). The core never depends on a
// consumer being present.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *zap.SugaredLogger
}

func NewPublisher(url, subject string, logger *zap.SugaredLogger) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}, nil
}

func (p *Publisher) PublishOrder(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, jsonData); err != nil {
		return err
	}

	p.logger.Infow("events: publish", "subject", p.subject)

	return nil
}

func (p *Publisher) Close() {
	p.conn.Close()
}
