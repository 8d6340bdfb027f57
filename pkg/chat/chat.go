// Package chat handles commands that scripted objects send on the script
// channel.
//
// A vehicle announces itself with
//
//	vehicle register
//
// and receives a link_message event whose num field is [CodeRegistered] and
// whose str field is "vehicle registered" or "already registered".
package chat

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/fleet"
	"github.com/matzehuels/railinfra/pkg/observability"
)

// DefaultChannel is the script channel listened on when none is configured.
const DefaultChannel = 7240

// Reply codes carried in LinkMessage.Num.
const (
	CodeRegistered = 1
	CodeError      = -1
)

// EventLinkMessage is the script event replies are posted as.
const EventLinkMessage = "link_message"

// Message is a chat line said by a scene object.
type Message struct {
	Channel     int       `json:"channel"`
	Sender      uuid.UUID `json:"sender"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Text        string    `json:"text"`
}

// LinkMessage mirrors the script event
// link_message(integer sender_num, integer num, string str, key id).
type LinkMessage struct {
	SenderNum int       `json:"sender_num"`
	Num       int       `json:"num"`
	Str       string    `json:"str"`
	ID        uuid.UUID `json:"id"`
}

// Notifier delivers script events to scene objects.
type Notifier interface {
	PostObjectEvent(ctx context.Context, target uuid.UUID, event string, msg LinkMessage) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, target uuid.UUID, event string, msg LinkMessage) error

// PostObjectEvent calls f.
func (f NotifierFunc) PostObjectEvent(ctx context.Context, target uuid.UUID, event string, msg LinkMessage) error {
	return f(ctx, target, event, msg)
}

type command struct {
	tokens []string
	run    func(ctx context.Context, msg Message, args []string) LinkMessage
}

// Handler dispatches channel messages to commands.
type Handler struct {
	Channel  int
	Fleet    *fleet.Fleet
	Notifier Notifier
	Logger   *log.Logger

	commands []command
}

// NewHandler returns a handler listening on channel. notifier may be nil
// when replies are only returned from Process.
func NewHandler(channel int, f *fleet.Fleet, notifier Notifier, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{Channel: channel, Fleet: f, Notifier: notifier, Logger: logger}
	h.commands = []command{
		{tokens: []string{"vehicle", "register"}, run: h.vehicleRegister},
	}
	return h
}

// Process runs every command matching msg and returns the replies, which
// are also posted to the sender through the Notifier. Messages on other
// channels and messages without a sender are ignored.
func (h *Handler) Process(ctx context.Context, msg Message) ([]LinkMessage, error) {
	h.Logger.Debug("chat", "sender", msg.Sender, "name", msg.Name, "channel", msg.Channel, "text", msg.Text)
	if msg.Channel != h.Channel || msg.Sender == uuid.Nil {
		return nil, nil
	}

	tokens := strings.Fields(msg.Text)
	var (
		replies []LinkMessage
		errs    []error
	)
	for _, c := range h.commands {
		args, ok := match(tokens, c.tokens)
		if !ok {
			continue
		}
		reply := c.run(ctx, msg, args)
		replies = append(replies, reply)
		observability.Fleet().OnChatCommand(ctx, strings.Join(c.tokens, " "), reply.Num)

		if h.Notifier != nil {
			if err := h.Notifier.PostObjectEvent(ctx, msg.Sender, EventLinkMessage, reply); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return replies, stderrors.Join(errs...)
}

// match reports whether tokens start with want and returns the rest.
func match(tokens, want []string) ([]string, bool) {
	if len(tokens) < len(want) {
		return nil, false
	}
	for i, w := range want {
		if tokens[i] != w {
			return nil, false
		}
	}
	return tokens[len(want):], true
}

func (h *Handler) vehicleRegister(ctx context.Context, msg Message, _ []string) LinkMessage {
	reply := LinkMessage{Num: CodeRegistered, ID: msg.Sender}

	err := h.Fleet.Register(ctx, fleet.Vehicle{ID: msg.Sender, Name: msg.Name, Description: msg.Description})
	switch {
	case err == nil:
		h.Logger.Info("registered vehicle", "id", msg.Sender, "name", msg.Name)
		reply.Str = "vehicle registered"
	case stderrors.Is(err, fleet.ErrAlreadyRegistered):
		reply.Str = "already registered"
	default:
		h.Logger.Warn("vehicle registration failed", "id", msg.Sender, "err", err)
		reply.Num = CodeError
		reply.Str = err.Error()
	}
	return reply
}
