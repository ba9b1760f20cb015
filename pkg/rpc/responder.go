package rpc

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/synaptica-ai/twosides-bridge/pkg/bus"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
	"github.com/synaptica-ai/twosides-bridge/pkg/observability/metrics"
	"github.com/synaptica-ai/twosides-bridge/pkg/query"
)

type ResponderConfig struct {
	RequestTopic  string
	ResponseTopic string
	// Group is the subscription group on the request topic. Empty means
	// every responder instance answers every request.
	Group string
}

// Responder serves requests from the request topic with a local provider.
// Nothing a single message does can stop it: bad envelopes, provider errors
// and failed publishes are logged and the next message is handled.
type Responder struct {
	transport     bus.Transport
	provider      query.Provider
	requestTopic  string
	responseTopic string
	group         string
	log           *logrus.Entry
}

func NewResponder(transport bus.Transport, provider query.Provider, cfg ResponderConfig) *Responder {
	return &Responder{
		transport:     transport,
		provider:      provider,
		requestTopic:  cfg.RequestTopic,
		responseTopic: cfg.ResponseTopic,
		group:         cfg.Group,
		log:           logger.Component("responder"),
	}
}

func (r *Responder) Start(ctx context.Context) error {
	if err := r.transport.Subscribe(ctx, r.requestTopic, r.group, r.Handle); err != nil {
		return fmt.Errorf("subscribing to requests: %w", err)
	}
	r.log.WithFields(logrus.Fields{
		"topic": r.requestTopic,
		"group": r.group,
	}).Info("responder listening for requests")
	return nil
}

// Handle processes one raw request.
func (r *Responder) Handle(ctx context.Context, payload []byte) {
	env, err := DecodeRequest(payload)
	if err != nil {
		metrics.MalformedMessages.Add(1)
		r.log.WithError(err).Warn("dropping undecodable request")
		return
	}
	log := r.log.WithFields(logrus.Fields{"request_id": env.RequestID, "action": env.Action})

	data, err := r.dispatch(ctx, env, log)
	if err != nil {
		metrics.MalformedMessages.Add(1)
		log.WithError(err).Warn("dropping request with bad params")
		return
	}
	metrics.RequestsHandled.Add(1)

	resp, err := NewResponse(env.RequestID, data)
	if err != nil {
		log.WithError(err).Error("failed to encode response")
		return
	}
	out, err := EncodeResponse(resp)
	if err != nil {
		log.WithError(err).Error("failed to encode response")
		return
	}
	if err := r.transport.Publish(ctx, r.responseTopic, out); err != nil {
		metrics.PublishFailures.Add(1)
		log.WithError(err).Error("failed to publish response")
		return
	}
	log.Debug("response published")
}

// dispatch returns the response data for env. Only undecodable params yield
// an error; unknown actions and provider failures still produce data.
func (r *Responder) dispatch(ctx context.Context, env RequestEnvelope, log *logrus.Entry) (interface{}, error) {
	switch env.Action {
	case ActionQueryDrug:
		var p DrugParams
		if err := decodeParams(env.Params, &p); err != nil {
			return nil, err
		}
		names, err := r.provider.QueryDrug(ctx, p.DrugName, p.Like)
		if err != nil {
			metrics.ProviderFailures.Add(1)
			log.WithError(err).Error("drug lookup failed")
			return []string{}, nil
		}
		if names == nil {
			names = []string{}
		}
		return query.LimitDrugs(names), nil

	case ActionQueryInteraction, actionQueryTwosides:
		var p InteractionParams
		if err := decodeParams(env.Params, &p); err != nil {
			return nil, err
		}
		col, err := r.provider.QueryInteraction(ctx, p.Drug1Name, p.Drug2Name, p.Filtered)
		if err != nil {
			metrics.ProviderFailures.Add(1)
			log.WithError(err).Error("interaction lookup failed")
			return interaction.NewCollection(), nil
		}
		return col, nil

	default:
		log.Warn("unknown action")
		return "Unknown action: " + string(env.Action), nil
	}
}
