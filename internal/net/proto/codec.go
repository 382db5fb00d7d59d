package proto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts envelopes to and from frames.
type Codec interface {
	Name() string
	// Binary reports whether frames should travel as binary messages.
	Binary() bool
	Encode(Envelope) ([]byte, error)
	Decode([]byte) (Envelope, error)
}

const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// NewCodec returns the codec registered under name.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecMsgpack:
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// JSONCodec frames envelopes as JSON text.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func (JSONCodec) Decode(data []byte) (Envelope, error) {
	var wire struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	payload, err := decodePayload(wire.Type, func(v any) error {
		if len(wire.Payload) == 0 {
			return fmt.Errorf("missing payload")
		}
		return json.Unmarshal(wire.Payload, v)
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: wire.Type, Payload: payload}, nil
}

// MsgpackCodec frames envelopes as MessagePack, reusing the json field names
// so both codecs share one schema.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return CodecMsgpack }

func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Encode(env Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(env); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) Decode(data []byte) (Envelope, error) {
	var wire struct {
		Type    string             `json:"type"`
		Payload msgpack.RawMessage `json:"payload"`
	}
	if err := newMsgpackDecoder(data).Decode(&wire); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	payload, err := decodePayload(wire.Type, func(v any) error {
		if len(wire.Payload) == 0 {
			return fmt.Errorf("missing payload")
		}
		return newMsgpackDecoder(wire.Payload).Decode(v)
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: wire.Type, Payload: payload}, nil
}

func newMsgpackDecoder(data []byte) *msgpack.Decoder {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec
}

func decodePayload(kind string, unmarshal func(any) error) (any, error) {
	var (
		payload any
		err     error
	)
	switch kind {
	case TypeRequestSummon:
		return nil, nil
	case TypeRequestMerge:
		var p RequestMerge
		err = unmarshal(&p)
		payload = p
	case TypeAction:
		var p Action
		err = unmarshal(&p)
		payload = p
	case TypeState:
		var p State
		err = unmarshal(&p)
		payload = p
	case TypeDeckShare:
		var p DeckShare
		err = unmarshal(&p)
		payload = p
	case TypeStartGame:
		var p StartGame
		err = unmarshal(&p)
		payload = p
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return payload, nil
}

// Payload extracts the typed payload of env.
func Payload[T any](env Envelope) (T, bool) {
	p, ok := env.Payload.(T)
	return p, ok
}
