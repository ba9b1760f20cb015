package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/synaptica-ai/twosides-bridge/pkg/bus"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
	"github.com/synaptica-ai/twosides-bridge/pkg/observability/metrics"
	"github.com/synaptica-ai/twosides-bridge/pkg/query"
)

const DefaultTimeout = 5 * time.Minute

type RequesterConfig struct {
	RequestTopic  string
	ResponseTopic string
	Timeout       time.Duration
}

// Requester answers query.Provider calls by publishing requests and waiting
// for the matching response. Any number of calls may be outstanding; one
// background subscription feeds all of them.
type Requester struct {
	transport     bus.Transport
	requestTopic  string
	responseTopic string
	timeout       time.Duration
	inbox         *Inbox
	newID         func() string
	log           *logrus.Entry
}

func NewRequester(transport bus.Transport, cfg RequesterConfig) *Requester {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Requester{
		transport:     transport,
		requestTopic:  cfg.RequestTopic,
		responseTopic: cfg.ResponseTopic,
		timeout:       cfg.Timeout,
		inbox:         NewInbox(),
		newID:         uuid.NewString,
		log:           logger.Component("requester"),
	}
}

// Start subscribes to the response topic. Every requester needs to see every
// response, so the subscription never joins a shared group.
func (r *Requester) Start(ctx context.Context) error {
	if err := r.transport.Subscribe(ctx, r.responseTopic, "", r.onResponse); err != nil {
		return fmt.Errorf("subscribing to responses: %w", err)
	}
	r.log.WithField("topic", r.responseTopic).Info("requester listening for responses")
	return nil
}

func (r *Requester) onResponse(_ context.Context, payload []byte) {
	env, err := DecodeResponse(payload)
	if err != nil {
		metrics.MalformedMessages.Add(1)
		r.log.WithError(err).Warn("dropping undecodable response")
		return
	}
	if !r.inbox.Deliver(env.RequestID, env.Data) {
		metrics.UnsolicitedResponses.Add(1)
		r.log.WithField("request_id", env.RequestID).Debug("response has no waiting request")
		return
	}
	metrics.ResponsesMatched.Add(1)
}

func (r *Requester) QueryDrug(ctx context.Context, name string, like bool) ([]string, error) {
	data, err := r.call(ctx, ActionQueryDrug, DrugParams{DrugName: name, Like: like})
	if err != nil {
		return nil, err
	}
	var names []string
	if err := decodeNames(data, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *Requester) QueryInteraction(ctx context.Context, drug1, drug2 string, filtered bool) (interaction.Collection, error) {
	data, err := r.call(ctx, ActionQueryInteraction, InteractionParams{
		Drug1Name: drug1,
		Drug2Name: drug2,
		Filtered:  filtered,
	})
	if err != nil {
		return interaction.Collection{}, err
	}
	var col interaction.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return interaction.Collection{}, fmt.Errorf("%w: %s: %v", ErrUnexpectedResponse, ActionQueryInteraction, err)
	}
	// A responder whose provider failed answers with no bucket at all. That
	// is a failed lookup, not a safe pair.
	key := interaction.PairKey(drug1, drug2)
	if keys := col.Keys(); len(keys) != 1 || keys[0] != key {
		return interaction.Collection{}, fmt.Errorf("%w: %s: want one bucket %q, got %v",
			ErrUnexpectedResponse, ActionQueryInteraction, key, keys)
	}
	return col, nil
}

// decodeNames reads a drug name list. A null list decodes as empty.
func decodeNames(data json.RawMessage, into *[]string) error {
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedResponse, ActionQueryDrug, err)
	}
	if *into == nil {
		*into = []string{}
	}
	return nil
}

// call publishes one request and waits for its response data. Failures are
// never retried; a caller that wants another attempt issues a new call and
// gets a new correlation id.
func (r *Requester) call(ctx context.Context, action Action, params interface{}) (json.RawMessage, error) {
	id := r.newID()
	env, err := NewRequest(id, action, params)
	if err != nil {
		return nil, err
	}
	payload, err := EncodeRequest(env)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	log := r.log.WithFields(logrus.Fields{"request_id": id, "action": action})
	waiter := r.inbox.Expect(id)
	if err := r.transport.Publish(ctx, r.requestTopic, payload); err != nil {
		waiter.Cancel()
		metrics.PublishFailures.Add(1)
		log.WithError(err).Error("failed to publish request")
		return nil, fmt.Errorf("publishing %s: %w", action, err)
	}
	metrics.RequestsSent.Add(1)
	log.Debug("request published")

	start := time.Now()
	data, err := waiter.Wait(ctx, r.timeout)
	if err != nil {
		if errors.Is(err, ErrRequestTimeout) {
			metrics.RequestTimeouts.Add(1)
		}
		log.WithError(err).WithField("waited", time.Since(start).String()).Warn("request abandoned")
		return nil, err
	}
	log.WithField("latency_ms", time.Since(start).Milliseconds()).Debug("response received")
	return data, nil
}

var _ query.Provider = (*Requester)(nil)
