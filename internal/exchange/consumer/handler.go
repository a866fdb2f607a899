package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/exchange/producer"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

type handler struct {
	events      EventsRepository
	validator   *validation.Validator
	log         zerolog.Logger
	commitOnDLQ bool
}

func (h *handler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *handler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if h.handle(sess.Context(), msg) {
			sess.MarkMessage(msg, "")
		}
	}
	return nil
}

// handle stores one change event and reports whether its offset may be committed.
func (h *handler) handle(ctx context.Context, msg *sarama.ConsumerMessage) bool {
	var env producer.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		h.toDLQ(ctx, msg, fmt.Sprintf("invalid_json: %v", err))
		return h.commitOnDLQ
	}

	messageID, reason := validateEnvelope(env, h.validator)
	if reason != "" {
		h.toDLQ(ctx, msg, reason)
		return h.commitOnDLQ
	}

	exists, err := h.events.ExistsMessage(ctx, messageID)
	if err != nil {
		h.toDLQ(ctx, msg, fmt.Sprintf("events.ExistsMessage: %v", err))
		return h.commitOnDLQ
	}

	if exists {
		h.log.Info().
			Str("message_id", messageID.String()).
			Str("employee_id", env.EmployeeID).
			Msg("duplicate message, skip (idempotency)")
		return true // коммитим — событие уже обработано ранее
	}

	if err := h.events.InsertEvent(ctx, dto.KafkaEvent{
		MessageID:  messageID,
		Kind:       string(env.Kind),
		EmployeeID: env.EmployeeID,
		Topic:      msg.Topic,
		Partition:  int(msg.Partition),
		Offset:     msg.Offset,
		Payload:    append([]byte(nil), msg.Value...),
	}); err != nil {
		h.toDLQ(ctx, msg, fmt.Sprintf("events.InsertEvent: %v", err))
		return h.commitOnDLQ
	}

	h.log.Debug().
		Str("message_id", messageID.String()).
		Str("kind", string(env.Kind)).
		Str("employee_id", env.EmployeeID).
		Int64("offset", msg.Offset).
		Msg("event stored")

	return true
}

func (h *handler) toDLQ(ctx context.Context, msg *sarama.ConsumerMessage, reason string) {
	if err := h.events.InsertDLQ(ctx, dto.KafkaDLQ{
		Topic:   msg.Topic,
		Key:     string(msg.Key),
		Payload: append([]byte(nil), msg.Value...),
		Error:   reason,
	}); err != nil {
		h.log.Error().Err(err).Str("reason", reason).Msg("insert into DLQ failed")
	}

	h.log.Warn().
		Str("topic", msg.Topic).
		Int32("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Str("reason", reason).
		Msg("message sent to DLQ")
}
