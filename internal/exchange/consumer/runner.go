package consumer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

type EventsRepository interface {
	ExistsMessage(ctx context.Context, messageID uuid.UUID) (bool, error)
	InsertEvent(ctx context.Context, ev dto.KafkaEvent) error
	InsertDLQ(ctx context.Context, dlq dto.KafkaDLQ) error
}

type Config struct {
	Bootstrap []string
	GroupID   string
	Topic     string
	ClientID  string
	// CommitOnDLQ marks messages routed to the DLQ as consumed.
	CommitOnDLQ bool
}

type Runner struct {
	brokers   []string
	groupID   string
	topic     string
	handler   sarama.ConsumerGroupHandler
	log       zerolog.Logger
	createCfg func() *sarama.Config
}

// NewAuditRunner consumes employee change events into the audit log.
func NewAuditRunner(cfg Config, events EventsRepository, v *validation.Validator, log zerolog.Logger) *Runner {
	h := &handler{
		events:      events,
		validator:   v,
		log:         log.With().Str("consumer", "audit").Logger(),
		commitOnDLQ: cfg.CommitOnDLQ,
	}

	return newRunner(cfg, h, log)
}

func newRunner(cfg Config, h sarama.ConsumerGroupHandler, log zerolog.Logger) *Runner {
	createCfg := func() *sarama.Config {
		sCfg := sarama.NewConfig()
		sCfg.Version = sarama.V3_3_2_0
		sCfg.ClientID = cfg.ClientID
		sCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRange()}
		sCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
		sCfg.Consumer.Return.Errors = true
		// Автокоммит управляется вызовами session.MarkMessage
		return sCfg
	}

	return &Runner{
		brokers:   cfg.Bootstrap,
		groupID:   cfg.GroupID,
		topic:     cfg.Topic,
		handler:   h,
		log:       log.With().Str("component", "AuditRunner").Str("topic", cfg.Topic).Str("group", cfg.GroupID).Logger(),
		createCfg: createCfg,
	}
}

// Start consumes until ctx is cancelled. Consume errors are logged and retried.
func (r *Runner) Start(ctx context.Context) error {
	consumerGroup, err := sarama.NewConsumerGroup(r.brokers, r.groupID, r.createCfg())
	if err != nil {
		return err
	}
	defer func() { _ = consumerGroup.Close() }()

	go func() {
		for err := range consumerGroup.Errors() {
			if err == nil || errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "context canceled") {
				continue
			}

			r.log.Error().Err(err).Msg("consumer group error")
		}
	}()

	r.log.Info().Msg("consumer started")
	defer r.log.Info().Msg("consumer stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		err := consumerGroup.Consume(ctx, []string{r.topic}, r.handler)

		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil
		}

		if err != nil {
			r.log.Error().Err(err).Msg("consume error")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(500 * time.Millisecond):
			}
		}
	}
}
