package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEmptyFrame = errors.New("protocol: empty frame")

// Encode marshals payload into an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("protocol: encode without a type")
	}
	env := Envelope{Type: t}
	if payload != nil {
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode %s: %w", t, err)
		}
		env.Data = pb
	}
	return json.Marshal(env)
}

func Decode(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("protocol: envelope without a type")
	}
	return env, nil
}

// DecodePayload unmarshals the envelope data into a T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Data) == 0 {
		return out, fmt.Errorf("protocol: empty payload for type %q", env.Type)
	}
	err := json.Unmarshal(env.Data, &out)
	return out, err
}

// Stamp re-encodes env with sender set.
func Stamp(env Envelope, sender string) ([]byte, error) {
	env.Sender = sender
	return json.Marshal(env)
}

// ErrorFrame builds an error frame; it cannot fail.
func ErrorFrame(msg string) []byte {
	b, _ := Encode(TypeError, ErrorData{Message: msg})
	return b
}
