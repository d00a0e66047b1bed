package shared

import "strings"

// Channel identifies where a request originated
type Channel string

const (
	ChannelWeb      Channel = "WEB"
	ChannelWhatsApp Channel = "WHATSAPP"
)

// Executor names the system that carried out a request on behalf of the actor
type Executor string

const (
	ExecutorWeb      Executor = "WEB"
	ExecutorClawdbot Executor = "CLAWDBOT"
)

// DefaultActor is recorded when no authenticated subject is available
const DefaultActor = "ADMIN"

// ParseChannel parses a channel name, defaulting blank input to WEB
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToUpper(strings.TrimSpace(s))) {
	case "", ChannelWeb:
		return ChannelWeb, nil
	case ChannelWhatsApp:
		return ChannelWhatsApp, nil
	}
	return "", NewValidationError("invalid channel %q", s)
}

// IsValid reports whether the channel is known
func (c Channel) IsValid() bool {
	return c == ChannelWeb || c == ChannelWhatsApp
}

// Executor derives the executor for a channel
func (c Channel) Executor() Executor {
	if c == ChannelWhatsApp {
		return ExecutorClawdbot
	}
	return ExecutorWeb
}

// Identity is the caller on whose behalf an operation runs
type Identity struct {
	Actor   string
	Channel Channel
}

// NewIdentity builds an Identity, filling in the default actor and channel
func NewIdentity(actor string, channel Channel) Identity {
	if strings.TrimSpace(actor) == "" {
		actor = DefaultActor
	}
	if channel == "" {
		channel = ChannelWeb
	}
	return Identity{Actor: actor, Channel: channel}
}

// Executor derives the executor from the identity's channel
func (i Identity) Executor() Executor {
	return i.Channel.Executor()
}
