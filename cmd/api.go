package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Artexxx/HR-Directory/internal/api"
	"github.com/Artexxx/HR-Directory/internal/config"
	"github.com/Artexxx/HR-Directory/internal/exchange/consumer"
	"github.com/Artexxx/HR-Directory/internal/exchange/producer"
	"github.com/Artexxx/HR-Directory/internal/repository/employee"
	"github.com/Artexxx/HR-Directory/internal/repository/events"
	"github.com/Artexxx/HR-Directory/internal/validation"
	"github.com/Artexxx/HR-Directory/library/pg"
)

func apiCmd(f *rootFlags) *cobra.Command {
	var withAudit bool

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Run the employees REST backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(f)
			if err != nil {
				return err
			}
			return runAPI(cfg, withAudit)
		},
	}

	cmd.Flags().BoolVar(&withAudit, "audit", false, "also run the audit consumer in this process")

	return cmd
}

func runAPI(cfg *config.Config, withAudit bool) error {
	if withAudit && (cfg.PostgresConn() == "" || !cfg.Kafka.IsEnabled()) {
		return errors.New("audit consumer needs both postgres and kafka configured")
	}

	ctx, stop := signalContext()
	defer stop()

	deps := api.ServiceDeps{
		Port:      cfg.EmployeesAPI.PortOrDefault(),
		Validator: validation.New(),
		Log:       log.Logger,
	}

	var eventsRepo *events.Repository
	if conn := cfg.PostgresConn(); conn != "" {
		pgClient, err := pg.NewPG(ctx, conn, log.Logger)
		if err != nil {
			log.Error().Err(err).Msg("postgres init failed")
			return err
		}
		defer pgClient.Close()

		employeeRepo := employee.NewRepository(pgClient.Pool())
		if err := employeeRepo.Migrate(ctx); err != nil {
			return err
		}
		eventsRepo = events.NewRepository(pgClient.Pool())
		if err := eventsRepo.Migrate(ctx); err != nil {
			return err
		}

		deps.Employees = employeeRepo
		deps.Events = eventsRepo
	} else {
		log.Warn().Msg("postgres connection not configured, employees are kept in memory")
		deps.Employees = employee.NewMemory()
	}

	if cfg.Kafka.IsEnabled() {
		p, err := newEmployeeProducer(cfg.Kafka)
		if err != nil {
			log.Error().Err(err).Msg("kafka producer init failed")
			return err
		}
		defer func() { _ = p.Close() }()

		deps.Producer = p
	}

	apiService := api.NewService(deps)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Msg("запуск HTTP API")
		if err := apiService.Start(gctx); err != nil {
			log.Error().Err(err).Msg("HTTP API завершился с ошибкой")
			return err
		}
		log.Info().Msg("HTTP API остановлен")
		return nil
	})

	if withAudit {
		runner := newAuditRunner(cfg.Kafka, eventsRepo)
		group.Go(func() error {
			return runner.Start(gctx)
		})
	}

	err := group.Wait()
	log.Info().Msg("all services stopped")

	return err
}

func newEmployeeProducer(k config.KafkaConfig) (*producer.EmployeeProducer, error) {
	sp, err := producer.NewSyncProducer(k.Brokers(), k.Client())
	if err != nil {
		return nil, err
	}

	return producer.NewEmployeeProducer(sp, producer.Config{
		Topic:  k.TopicName(),
		Source: "hr-directory-api",
	}, log.Logger), nil
}

func newAuditRunner(k config.KafkaConfig, repo consumer.EventsRepository) *consumer.Runner {
	return consumer.NewAuditRunner(consumer.Config{
		Bootstrap: k.Brokers(),
		GroupID:   k.Group(),
		Topic:     k.TopicName(),
		ClientID:  k.Client(),
	}, repo, validation.New(), log.Logger)
}

func runAudit(ctx context.Context, cfg *config.Config) error {
	if !cfg.Kafka.IsEnabled() {
		return errors.New("kafka is disabled in config")
	}

	pgClient, err := pg.NewPG(ctx, cfg.PostgresConn(), log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("postgres init failed")
		return err
	}
	defer pgClient.Close()

	eventsRepo := events.NewRepository(pgClient.Pool())
	if err := eventsRepo.Migrate(ctx); err != nil {
		return err
	}

	log.Info().Msg("запуск audit consumer")
	err = newAuditRunner(cfg.Kafka, eventsRepo).Start(ctx)
	log.Info().Msg("audit consumer остановлен")

	return err
}

func auditCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Consume employee change events into the audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(f)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			return runAudit(ctx, cfg)
		},
	}
}
