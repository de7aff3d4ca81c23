package editor

import (
	"errors"

	"github.com/example/photoedit/internal/importer"
	"github.com/example/photoedit/internal/surface"
)

// MessageKind classifies a user-facing message.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageInvalidDimensions
	MessageImageDecode
)

func (k MessageKind) String() string {
	switch k {
	case MessageInvalidDimensions:
		return "invalid-dimensions"
	case MessageImageDecode:
		return "image-decode"
	}
	return "info"
}

// Message is shown to the user by the host.
type Message struct {
	Kind MessageKind
	Text string
	Err  error
}

// Reporter displays messages.
type Reporter interface {
	Report(Message)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Message)

func (f ReporterFunc) Report(m Message) { f(m) }

func messageFor(err error) Message {
	switch {
	case errors.Is(err, surface.ErrInvalidDimensions):
		return Message{Kind: MessageInvalidDimensions, Text: err.Error(), Err: err}
	case errors.Is(err, importer.ErrImageDecode):
		return Message{Kind: MessageImageDecode, Text: err.Error(), Err: err}
	}
	return Message{Kind: MessageInfo, Text: err.Error(), Err: err}
}
