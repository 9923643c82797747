package main

import (
	"database/sql"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/bnsl/draftd/go/internal/draftorder"
	"github.com/bnsl/draftd/go/internal/enforcer"
	"github.com/bnsl/draftd/go/internal/gateway"
	"github.com/bnsl/draftd/go/internal/meta"
	"github.com/bnsl/draftd/go/internal/notify"
	"github.com/bnsl/draftd/go/internal/outbox"
	"github.com/bnsl/draftd/go/internal/overrides"
	"github.com/bnsl/draftd/go/internal/queues"
	"github.com/bnsl/draftd/go/internal/registry"
	"github.com/bnsl/draftd/go/internal/schedule"
)

type Services struct {
	Resolver  *schedule.Resolver
	Order     *draftorder.App
	Players   *registry.App
	Queues    *queues.App
	Overrides *overrides.App
	Enforcer  *enforcer.Enforcer
	Gate      *notify.Gate

	ConnManager  *gateway.ConnectionManager
	Consumer     *gateway.EventConsumer
	OutboxWorker *outbox.Worker

	Clock clockwork.Clock
}

func setupServices(database *sql.DB, config *Config, schedCfg schedule.Config) (*Services, error) {
	// Database layer -> repository layer -> app layer, one chain per domain.
	clock := clockwork.NewRealClock()
	resolver := schedule.NewResolver(schedCfg)

	outboxRepo := outbox.NewRepository(database)
	metaRepo := meta.NewRepository(database)

	playerRepo := registry.NewPlayerRepository(database)
	playersApp := registry.NewApp(playerRepo)

	overridesApp := overrides.NewApp(overrides.NewRepository(database), schedCfg.Location)

	queuesApp := queues.NewApp(queues.NewRepository(database), playersApp)

	pickRepo := draftorder.NewPickRepository(database, outboxRepo)
	orderApp := draftorder.NewApp(pickRepo, playersApp, clock)

	enf := enforcer.New(resolver, orderApp, overridesApp, orderApp, queuesApp, clock)
	gate := notify.NewGate(resolver, orderApp, overridesApp, metaRepo, outboxRepo, clock)

	// Bus side: outbox relay out, gateway consumer back in.
	publisher, err := setupPublisher(config)
	if err != nil {
		return nil, err
	}
	worker := outbox.NewWorker(database, outboxRepo, publisher, outbox.DefaultConfig())

	connManager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	consumer, err := setupConsumer(connManager, config)
	if err != nil {
		return nil, err
	}

	return &Services{
		Resolver:     resolver,
		Order:        orderApp,
		Players:      playersApp,
		Queues:       queuesApp,
		Overrides:    overridesApp,
		Enforcer:     enf,
		Gate:         gate,
		ConnManager:  connManager,
		Consumer:     consumer,
		OutboxWorker: worker,
		Clock:        clock,
	}, nil
}

func setupPublisher(config *Config) (outbox.EventPublisher, error) {
	if getEnv("OUTBOX_PUBLISHER", "nats") == "mock" {
		log.Warn().Msg("using mock event publisher")
		return outbox.NewMockPublisher(), nil
	}

	natsCfg := outbox.DefaultNATSConfig()
	natsCfg.URL = getEnv("NATS_URL", config.Bus.URL)
	if config.Bus.Stream != "" {
		natsCfg.StreamName = config.Bus.Stream
	}
	if config.Bus.SubjectPrefix != "" {
		natsCfg.SubjectPrefix = config.Bus.SubjectPrefix
	}
	return outbox.NewNATSPublisher(natsCfg)
}

func setupConsumer(cm *gateway.ConnectionManager, config *Config) (*gateway.EventConsumer, error) {
	if getEnv("OUTBOX_PUBLISHER", "nats") == "mock" {
		return nil, nil
	}

	consumerCfg := gateway.DefaultJetStreamConsumerConfig()
	consumerCfg.URL = getEnv("NATS_URL", config.Bus.URL)
	if config.Bus.Stream != "" {
		consumerCfg.StreamName = config.Bus.Stream
	}
	if config.Bus.SubjectPrefix != "" {
		consumerCfg.SubjectFilter = config.Bus.SubjectPrefix + ".>"
	}
	consumerCfg.AckWait = time.Duration(getEnvAsInt("GATEWAY_ACK_WAIT_SEC", 30)) * time.Second

	return gateway.NewEventConsumer(cm, consumerCfg)
}
