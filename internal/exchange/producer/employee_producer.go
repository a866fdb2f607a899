package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

type EmployeeProducer struct {
	sp     sarama.SyncProducer
	topic  string
	source string
	now    func() time.Time
	log    zerolog.Logger
}

type Config struct {
	Topic  string
	Source string
}

func NewEmployeeProducer(sp sarama.SyncProducer, cfg Config, log zerolog.Logger) *EmployeeProducer {
	return &EmployeeProducer{
		sp:     sp,
		topic:  cfg.Topic,
		source: cfg.Source,
		now:    time.Now,
		log:    log.With().Str("component", "EmployeeProducer").Logger(),
	}
}

// NewSyncProducer builds the idempotent sarama producer used for change events.
func NewSyncProducer(bootstrap []string, clientID string) (sarama.SyncProducer, error) {
	sCfg := sarama.NewConfig()
	sCfg.Version = sarama.V3_3_2_0
	sCfg.ClientID = clientID
	sCfg.Producer.Return.Successes = true
	sCfg.Producer.RequiredAcks = sarama.WaitForAll
	sCfg.Producer.Idempotent = true
	sCfg.Net.MaxOpenRequests = 1
	sCfg.Producer.Retry.Max = 5
	sCfg.Producer.Retry.Backoff = 200 * time.Millisecond

	return sarama.NewSyncProducer(bootstrap, sCfg)
}

func (p *EmployeeProducer) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

// Publish sends one change event keyed by employee ID, so events of a single
// employee stay ordered within a partition.
func (p *EmployeeProducer) Publish(ctx context.Context, kind Kind, e dto.Employee) (uuid.UUID, error) {
	messageID := uuid.New()

	body, err := json.Marshal(Envelope{
		Kind:       kind,
		MessageID:  messageID.String(),
		EmployeeID: e.ID,
		Payload:    e,
		Timestamp:  p.now().UTC(),
		Source:     p.source,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("json.Marshal: %w", err)
	}

	err = p.send(ctx, p.topic, e.ID, body, map[string]string{
		"event-kind":   string(kind),
		"message-id":   messageID.String(),
		"source":       p.source,
		"content-type": "application/json",
	})
	if err != nil {
		return uuid.Nil, err
	}

	return messageID, nil
}

func (p *EmployeeProducer) send(_ context.Context, topic, key string, value []byte, headers map[string]string) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: hs,
	}

	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Int("headers_count", len(headers)).
			Int("bytes", len(value)).
			Msg("failed to send kafka message")
		return fmt.Errorf("send kafka message: %w", err)
	}

	p.log.Info().
		Str("topic", topic).
		Str("key", key).
		Int32("partition", part).
		Int64("offset", off).
		Int("bytes", len(value)).
		Msg("kafka message sent")
	return nil
}
