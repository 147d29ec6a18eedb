// Package protocol defines the JSON signaling messages exchanged between
// endpoints and the relay.
//
// Inbound messages are parsed into one concrete type per "type" tag. Session
// descriptions and ICE candidates are opaque to the relay and are carried as
// raw JSON.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Callsign/internal/domain"
)

type Type string

const (
	TypeRegister     Type = "register"
	TypeCallUser     Type = "call-user"
	TypeAnswerCall   Type = "answer-call"
	TypeICECandidate Type = "ice-candidate"

	TypeRegistered   Type = "registered"
	TypeError        Type = "error"
	TypeUserNotFound Type = "user-not-found"
	TypeIncomingCall Type = "incoming-call"
	TypeCallAnswered Type = "call-answered"
)

// InvalidUserID is the error text sent back for a register without a userId.
const InvalidUserID = "Invalid userId"

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// Message is one inbound signaling message.
type Message interface {
	Type() Type
}

// Register may carry an empty UserID; rejecting it is the router's job
// because the sender gets an error reply.
type Register struct {
	UserID domain.UserID
}

type CallUser struct {
	From  domain.UserID
	To    domain.UserID
	Offer json.RawMessage
}

type AnswerCall struct {
	To     domain.UserID
	Answer json.RawMessage
}

type ICECandidate struct {
	To        domain.UserID
	Candidate json.RawMessage
}

func (Register) Type() Type     { return TypeRegister }
func (CallUser) Type() Type     { return TypeCallUser }
func (AnswerCall) Type() Type   { return TypeAnswerCall }
func (ICECandidate) Type() Type { return TypeICECandidate }

// Parse decodes data and checks that every key required by its type is
// present. Present keys are not validated further: an empty "to" or a null
// candidate is handed to the router as is. Errors wrap ErrMalformed or
// ErrUnknownType.
func Parse(data []byte) (Message, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var env struct {
		Type Type `json:"type"`
	}
	if err := decode(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	case TypeRegister:
		var p struct {
			UserID domain.UserID `json:"userId"`
		}
		if err := decode(data, &p); err != nil {
			return nil, err
		}
		return Register{UserID: p.UserID}, nil
	case TypeCallUser:
		if err := require(env.Type, keys, "from", "to", "offer"); err != nil {
			return nil, err
		}
		var p struct {
			From domain.UserID `json:"from"`
			To   domain.UserID `json:"to"`
		}
		if err := decode(data, &p); err != nil {
			return nil, err
		}
		return CallUser{From: p.From, To: p.To, Offer: raw(keys, "offer")}, nil
	case TypeAnswerCall:
		if err := require(env.Type, keys, "to", "answer"); err != nil {
			return nil, err
		}
		var p struct {
			To domain.UserID `json:"to"`
		}
		if err := decode(data, &p); err != nil {
			return nil, err
		}
		return AnswerCall{To: p.To, Answer: raw(keys, "answer")}, nil
	case TypeICECandidate:
		if err := require(env.Type, keys, "to", "candidate"); err != nil {
			return nil, err
		}
		var p struct {
			To domain.UserID `json:"to"`
		}
		if err := decode(data, &p); err != nil {
			return nil, err
		}
		return ICECandidate{To: p.To, Candidate: raw(keys, "candidate")}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// raw returns the value stored under key, with JSON null kept as "null".
func raw(keys map[string]json.RawMessage, key string) json.RawMessage {
	v := keys[key]
	if len(v) == 0 {
		return json.RawMessage("null")
	}
	return v
}

func require(t Type, keys map[string]json.RawMessage, names ...string) error {
	for _, name := range names {
		if _, ok := keys[name]; !ok {
			return fmt.Errorf("%w: %s message missing %s", ErrMalformed, t, name)
		}
	}
	return nil
}
