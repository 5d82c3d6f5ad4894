package domain

import (
	"strings"

	dErrors "hearth/pkg/domain-errors"
)

// Channel is an outbound communication channel.
// Invariant: the value must be one of the supported channels.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelVoice Channel = "VOICE"
)

var validChannels = map[Channel]bool{
	ChannelEmail: true,
	ChannelSMS:   true,
	ChannelVoice: true,
}

// ParseChannel constructs a Channel from external input. Matching is
// case-insensitive; the canonical form is upper case.
func ParseChannel(s string) (Channel, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "channel cannot be empty")
	}
	c := Channel(strings.ToUpper(s))
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid channel: "+s)
	}
	return c, nil
}

// IsValid checks if the channel is one of the supported enum values.
func (c Channel) IsValid() bool {
	return validChannels[c]
}

// Scope distinguishes promotional from transactional messaging. The two carry
// different consent requirements under TCPA/CAN-SPAM.
type Scope string

const (
	ScopePromotional   Scope = "PROMOTIONAL"
	ScopeTransactional Scope = "TRANSACTIONAL"
)

var validScopes = map[Scope]bool{
	ScopePromotional:   true,
	ScopeTransactional: true,
}

// ParseScope constructs a Scope from external input.
func ParseScope(s string) (Scope, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "scope cannot be empty")
	}
	sc := Scope(strings.ToUpper(s))
	if !sc.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid scope: "+s)
	}
	return sc, nil
}

// IsValid checks if the scope is one of the supported enum values.
func (s Scope) IsValid() bool {
	return validScopes[s]
}
