// Package bridge assembles providers, transports and protocol endpoints from
// configuration so that every binary wires them the same way.
package bridge

import (
	"context"
	"fmt"

	"github.com/synaptica-ai/twosides-bridge/pkg/bus"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/config"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/database"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/kafka"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
	"github.com/synaptica-ai/twosides-bridge/pkg/fixture"
	"github.com/synaptica-ai/twosides-bridge/pkg/query"
	"github.com/synaptica-ai/twosides-bridge/pkg/rpc"
	"github.com/synaptica-ai/twosides-bridge/pkg/store"
)

const (
	ModeDirect  = "direct"
	ModeRemote  = "remote"
	ModeFixture = "fixture"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// LocalProvider builds a provider that answers without the message bus:
// the relational store for "direct", the catalog for "fixture".
func LocalProvider(cfg *config.Config, mode string) (query.Provider, Check, error) {
	switch mode {
	case ModeDirect:
		db, err := database.GetPostgres(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		repo := store.NewRepository(db, cfg.TwosidesTable)
		return repo, repo.Ping, nil
	case ModeFixture:
		cat := fixture.DefaultCatalog()
		if cfg.FixturePath != "" {
			loaded, err := fixture.Load(cfg.FixturePath)
			if err != nil {
				return nil, nil, err
			}
			cat = loaded
		}
		logger.Log.WithField("records", len(cat.Records)).Info("Serving interactions from fixture catalog")
		return fixture.NewProvider(cat), alwaysReady, nil
	default:
		return nil, nil, fmt.Errorf("unknown local provider mode %q", mode)
	}
}

// Transport returns the configured transport, with a check that a payload
// can be published.
func Transport(cfg *config.Config) (bus.Transport, Check, error) {
	t, err := bus.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	check := alwaysReady
	switch cfg.Transport {
	case "kafka":
		check = func(ctx context.Context) error { return kafka.Ping(ctx, cfg.KafkaBrokers) }
	case "redis":
		check = func(ctx context.Context) error { return database.GetRedis(cfg).Ping(ctx).Err() }
	}
	return t, check, nil
}

// ResponderGroup is the group responders share on the request topic, so that
// each request is answered once per deployment.
func ResponderGroup(cfg *config.Config) string {
	if cfg.ResponderGroupID != "" {
		return cfg.ResponderGroupID
	}
	return cfg.KafkaGroupID + "-responders"
}

// StartResponder serves the request topic from provider until ctx is done.
func StartResponder(ctx context.Context, cfg *config.Config, t bus.Transport, provider query.Provider) (*rpc.Responder, error) {
	r := rpc.NewResponder(t, provider, rpc.ResponderConfig{
		RequestTopic:  cfg.RequestTopic,
		ResponseTopic: cfg.ResponseTopic,
		Group:         ResponderGroup(cfg),
	})
	if err := r.Start(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// StartRequester returns a provider that forwards lookups over t.
func StartRequester(ctx context.Context, cfg *config.Config, t bus.Transport) (*rpc.Requester, error) {
	r := rpc.NewRequester(t, rpc.RequesterConfig{
		RequestTopic:  cfg.RequestTopic,
		ResponseTopic: cfg.ResponseTopic,
		Timeout:       cfg.RPCTimeout,
	})
	if err := r.Start(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func alwaysReady(context.Context) error { return nil }
