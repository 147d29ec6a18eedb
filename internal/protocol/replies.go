package protocol

import (
	"encoding/json"

	"github.com/dkeye/Callsign/internal/domain"
)

// Replies are relay-originated messages. Each carries its own "type" so it
// can be marshalled directly.

type Registered struct {
	Type   Type          `json:"type"`
	UserID domain.UserID `json:"userId"`
}

type Error struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

type UserNotFound struct {
	Type Type          `json:"type"`
	To   domain.UserID `json:"to"`
}

type IncomingCall struct {
	Type  Type            `json:"type"`
	From  domain.UserID   `json:"from"`
	Offer json.RawMessage `json:"offer"`
}

type CallAnswered struct {
	Type   Type            `json:"type"`
	Answer json.RawMessage `json:"answer"`
}

type RelayedCandidate struct {
	Type      Type            `json:"type"`
	Candidate json.RawMessage `json:"candidate"`
}

func NewRegistered(uid domain.UserID) Registered {
	return Registered{Type: TypeRegistered, UserID: uid}
}

func NewError(msg string) Error {
	return Error{Type: TypeError, Message: msg}
}

func NewUserNotFound(to domain.UserID) UserNotFound {
	return UserNotFound{Type: TypeUserNotFound, To: to}
}

func NewIncomingCall(from domain.UserID, offer json.RawMessage) IncomingCall {
	return IncomingCall{Type: TypeIncomingCall, From: from, Offer: offer}
}

func NewCallAnswered(answer json.RawMessage) CallAnswered {
	return CallAnswered{Type: TypeCallAnswered, Answer: answer}
}

func NewRelayedCandidate(candidate json.RawMessage) RelayedCandidate {
	return RelayedCandidate{Type: TypeICECandidate, Candidate: candidate}
}
