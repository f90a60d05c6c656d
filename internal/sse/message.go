// Package sse implements the Server-Sent Events wire format per the W3C
// EventSource specification (https://www.w3.org/TR/2009/WD-eventsource-20091029/)
// and a StageTracker enforcing that a request's progress events are emitted
// in their declared order and never out of sequence.
package sse

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
)

var ErrMessageNoContent = errors.New("message has no content")

var lineBreakReplacer = strings.NewReplacer("\n", "\\n", "\r", "\\r")

var (
	byteLF        = []byte("\n")
	byteLFLF      = []byte("\n\n")
	byteCR        = []byte("\r")
	byteEscapedCR = []byte("\\r")
)

const (
	fieldID    = "id"
	fieldEvent = "event"
	fieldData  = "data"
	fieldRetry = "retry"
)

var (
	fieldPrefixID    = []byte(fieldID + ": ")
	fieldPrefixEvent = []byte(fieldEvent + ": ")
	fieldPrefixData  = []byte(fieldData + ": ")
	fieldPrefixRetry = []byte(fieldRetry + ": ")
)

// Message is one Server-Sent Event: an optional ID for resumption, an event
// type (defaults to "message" client-side when empty), a data payload, and
// an optional reconnection-time hint in milliseconds.
type Message struct {
	ID    string
	Event string
	Data  []byte
	Retry int
}

// Encoder renders Message values into SSE wire format. It holds no state
// and is safe for concurrent use.
type Encoder struct{}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) isValidMessage(m *Message) bool {
	return len(m.ID) != 0 || len(m.Event) != 0 || len(m.Data) != 0
}

func (e *Encoder) writeID(id string, buf *bytes.Buffer) {
	if id == "" {
		return
	}
	buf.Write(fieldPrefixID)
	buf.WriteString(lineBreakReplacer.Replace(id))
	buf.Write(byteLF)
}

func (e *Encoder) writeEvent(event string, buf *bytes.Buffer) {
	if event == "" {
		return
	}
	buf.Write(fieldPrefixEvent)
	buf.WriteString(lineBreakReplacer.Replace(event))
	buf.Write(byteLF)
}

func (e *Encoder) writeData(data []byte, buf *bytes.Buffer) {
	if len(data) == 0 {
		return
	}
	processed := bytes.ReplaceAll(data, byteCR, byteEscapedCR)
	for _, line := range bytes.Split(processed, byteLF) {
		buf.Write(fieldPrefixData)
		buf.Write(line)
		buf.Write(byteLF)
	}
}

func (e *Encoder) writeRetry(retry int, buf *bytes.Buffer) {
	if retry <= 0 {
		return
	}
	buf.Write(fieldPrefixRetry)
	buf.WriteString(strconv.Itoa(retry))
	buf.Write(byteLF)
}

// Encode renders m into its SSE wire bytes, terminated by a blank line.
func (e *Encoder) Encode(m *Message) ([]byte, error) {
	if !e.isValidMessage(m) {
		return nil, ErrMessageNoContent
	}
	estimated := len(m.ID) + len(m.Event) + 2*len(m.Data) + 8
	buf := bytes.NewBuffer(make([]byte, 0, estimated))
	e.writeID(m.ID, buf)
	e.writeEvent(m.Event, buf)
	e.writeData(m.Data, buf)
	e.writeRetry(m.Retry, buf)
	buf.Write(byteLF)
	return buf.Bytes(), nil
}
