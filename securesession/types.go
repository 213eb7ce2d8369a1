// Copyright (C) 2025 ecrypt-io
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package securesession implements a stateful, sequence-numbered secure
// channel: a handshake that agrees a session master key over an ephemeral
// ECDH exchange authenticated by long-term signing keys, followed by
// steady-state wrap/unwrap of application messages.
package securesession

import (
	"crypto/ecdsa"

	"github.com/ecrypt-io/ecrypt-go/primitives"
)

// State is the session's handshake/steady-state lifecycle position. It
// replaces a function-pointer dispatch chain with an explicit enum;
// Connect, Accept, Wrap, and Unwrap each check their own precondition
// against it before touching any key material.
type State int

const (
	StateNegotiating State = iota // client: connect_request sent, awaiting response
	StateAccepting                // server: request received, awaiting finish
	StateEstablished
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNegotiating:
		return "negotiating"
	case StateAccepting:
		return "accepting"
	case StateEstablished:
		return "established"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Callbacks is the external collaborator interface the handshake and
// steady-state machinery invoke; the session core never touches a socket
// or a key store directly.
type Callbacks interface {
	// GetPublicKeyForID resolves the long-term signature verification key
	// belonging to peerID, used to authenticate the peer's handshake
	// messages.
	GetPublicKeyForID(peerID uint32) (*ecdsa.PublicKey, error)
	// Send transmits an opaque handshake message to the peer.
	Send(msg []byte) error
	// Receive blocks for the peer's next opaque handshake message.
	Receive() ([]byte, error)
	// StateChanged is invoked whenever the session's State transitions.
	StateChanged(newState State)
}

// Context is a single Secure Session: either side of an established
// channel, or a handshake in progress. It is not safe for concurrent use
// by multiple goroutines — the concurrency model assigns exactly one
// context per logical connection, each fully independent of the others.
type Context struct {
	SessionID  uint32
	IsClient   bool
	State      State
	Curve      primitives.Curve
	SigningKey *ecdsa.PrivateKey

	callbacks Callbacks

	masterKey []byte // 32 bytes, present only once ESTABLISHED
	outKey    []byte
	inKey     []byte
	outSeq    uint32
	inSeq     uint32

	ephemeral *primitives.EphemeralKeyPair
}

// NewClientContext creates a session in StateNegotiating, ready to emit a
// connect_request.
func NewClientContext(sessionID uint32, curve primitives.Curve, signingKey *ecdsa.PrivateKey, callbacks Callbacks) *Context {
	return &Context{
		SessionID:  sessionID,
		IsClient:   true,
		State:      StateNegotiating,
		Curve:      curve,
		SigningKey: signingKey,
		callbacks:  callbacks,
	}
}

// NewServerContext creates a session in StateAccepting, ready to process a
// connect_request.
func NewServerContext(curve primitives.Curve, signingKey *ecdsa.PrivateKey, callbacks Callbacks) *Context {
	return &Context{
		IsClient:   false,
		State:      StateAccepting,
		Curve:      curve,
		SigningKey: signingKey,
		callbacks:  callbacks,
	}
}
