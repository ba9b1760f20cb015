// Package rpc runs request/response lookups over a one-way publish/subscribe
// transport. Requests and responses travel on two shared topics and are
// matched by a random correlation id.
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Action names the lookup a request asks for.
type Action string

const (
	ActionQueryDrug        Action = "queryDrug"
	ActionQueryInteraction Action = "queryInteraction"

	// Older requesters sent interaction lookups under this name.
	actionQueryTwosides Action = "queryTwosides"
)

var (
	ErrRequestTimeout     = errors.New("request timed out")
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnexpectedResponse = errors.New("unexpected response payload")
)

type RequestEnvelope struct {
	RequestID string          `json:"requestId"`
	Action    Action          `json:"action"`
	Params    json.RawMessage `json:"params,omitempty"`
}

type ResponseEnvelope struct {
	RequestID string          `json:"requestId"`
	Data      json.RawMessage `json:"data"`
}

type DrugParams struct {
	DrugName string `json:"drugName"`
	Like     bool   `json:"like"`
}

type InteractionParams struct {
	Drug1Name string `json:"drug1Name"`
	Drug2Name string `json:"drug2Name"`
	Filtered  bool   `json:"filtered"`
}

// NewRequest builds a request envelope with params encoded as JSON.
func NewRequest(id string, action Action, params interface{}) (RequestEnvelope, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return RequestEnvelope{}, fmt.Errorf("encoding %s params: %w", action, err)
	}
	return RequestEnvelope{RequestID: id, Action: action, Params: raw}, nil
}

// NewResponse builds a response envelope with data encoded as JSON.
func NewResponse(id string, data interface{}) (ResponseEnvelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return ResponseEnvelope{}, fmt.Errorf("encoding response data: %w", err)
	}
	return ResponseEnvelope{RequestID: id, Data: raw}, nil
}

func EncodeRequest(env RequestEnvelope) ([]byte, error) {
	return json.Marshal(env)
}

func DecodeRequest(payload []byte) (RequestEnvelope, error) {
	var env RequestEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return RequestEnvelope{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.RequestID == "" {
		return RequestEnvelope{}, fmt.Errorf("%w: missing requestId", ErrMalformedMessage)
	}
	if env.Action == "" {
		return env, fmt.Errorf("%w: missing action", ErrMalformedMessage)
	}
	return env, nil
}

func EncodeResponse(env ResponseEnvelope) ([]byte, error) {
	if env.Data == nil {
		env.Data = json.RawMessage("null")
	}
	return json.Marshal(env)
}

func DecodeResponse(payload []byte) (ResponseEnvelope, error) {
	var env ResponseEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.RequestID == "" {
		return ResponseEnvelope{}, fmt.Errorf("%w: missing requestId", ErrMalformedMessage)
	}
	return env, nil
}

// decodeParams rejects params that are absent or not an object of the
// expected shape.
func decodeParams(raw json.RawMessage, into interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("%w: missing params", ErrMalformedMessage)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%w: params: %v", ErrMalformedMessage, err)
	}
	return nil
}
