package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/fleet"
)

var loco = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")

type posted struct {
	target uuid.UUID
	event  string
	msg    LinkMessage
}

func newHandler() (*Handler, *[]posted) {
	var got []posted
	n := NotifierFunc(func(_ context.Context, target uuid.UUID, event string, msg LinkMessage) error {
		got = append(got, posted{target, event, msg})
		return nil
	})
	return NewHandler(DefaultChannel, fleet.New(), n, nil), &got
}

func TestVehicleRegister(t *testing.T) {
	h, got := newHandler()
	ctx := context.Background()
	msg := Message{Channel: DefaultChannel, Sender: loco, Name: "loco", Text: "vehicle register"}

	replies, err := h.Process(ctx, msg)
	if err != nil {
		t.Fatal(err)
	}
	want := []LinkMessage{{SenderNum: 0, Num: CodeRegistered, Str: "vehicle registered", ID: loco}}
	if diff := cmp.Diff(want, replies); diff != "" {
		t.Errorf("first reply mismatch (-want +got):\n%s", diff)
	}
	if !h.Fleet.Contains(loco) {
		t.Error("vehicle not registered")
	}

	replies, _ = h.Process(ctx, msg)
	want[0].Str = "already registered"
	if diff := cmp.Diff(want, replies); diff != "" {
		t.Errorf("second reply mismatch (-want +got):\n%s", diff)
	}

	if len(*got) != 2 {
		t.Fatalf("posted %d events, want 2", len(*got))
	}
	for _, p := range *got {
		if p.target != loco || p.event != EventLinkMessage {
			t.Errorf("posted %+v", p)
		}
	}
}

func TestProcessIgnored(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"other channel", Message{Channel: 0, Sender: loco, Text: "vehicle register"}},
		{"no sender", Message{Channel: DefaultChannel, Text: "vehicle register"}},
		{"unknown command", Message{Channel: DefaultChannel, Sender: loco, Text: "vehicle depart"}},
		{"partial command", Message{Channel: DefaultChannel, Sender: loco, Text: "vehicle"}},
		{"empty", Message{Channel: DefaultChannel, Sender: loco, Text: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, got := newHandler()
			replies, err := h.Process(context.Background(), tt.msg)
			if err != nil || len(replies) != 0 || len(*got) != 0 {
				t.Errorf("Process() = %v, %v; posted %d", replies, err, len(*got))
			}
			if h.Fleet.Len() != 0 {
				t.Error("fleet changed")
			}
		})
	}
}

func TestProcessExtraTokens(t *testing.T) {
	h, _ := newHandler()
	replies, err := h.Process(context.Background(), Message{
		Channel: DefaultChannel,
		Sender:  loco,
		Text:    "vehicle  register now please",
	})
	if err != nil || len(replies) != 1 || replies[0].Num != CodeRegistered {
		t.Errorf("Process() = %v, %v", replies, err)
	}
}

func TestProcessNotifierError(t *testing.T) {
	n := NotifierFunc(func(context.Context, uuid.UUID, string, LinkMessage) error {
		return fmt.Errorf("object gone")
	})
	h := NewHandler(DefaultChannel, fleet.New(), n, nil)
	replies, err := h.Process(context.Background(), Message{Channel: DefaultChannel, Sender: loco, Text: "vehicle register"})
	if err == nil {
		t.Error("Process() expected notifier error")
	}
	if len(replies) != 1 || !h.Fleet.Contains(loco) {
		t.Errorf("registration should still happen: %v", replies)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		tokens, want, args []string
		ok                 bool
	}{
		{[]string{"vehicle", "register"}, []string{"vehicle", "register"}, []string{}, true},
		{[]string{"vehicle", "register", "x"}, []string{"vehicle", "register"}, []string{"x"}, true},
		{[]string{"register", "vehicle"}, []string{"vehicle", "register"}, nil, false},
		{[]string{"vehicle"}, []string{"vehicle", "register"}, nil, false},
	}
	for _, tt := range tests {
		args, ok := match(tt.tokens, tt.want)
		if ok != tt.ok || !cmp.Equal(args, tt.args) {
			t.Errorf("match(%v, %v) = %v, %v; want %v, %v", tt.tokens, tt.want, args, ok, tt.args, tt.ok)
		}
	}
}
