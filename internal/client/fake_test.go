package client

import (
	"sync"

	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// sentMsg records one outbound message captured by the fake connector
type sentMsg struct {
	Type    protocol.MsgType
	Payload any
}

// fakeConnector is a script-driven Connector for tests. Deliver invokes
// the client's handlers synchronously, so assertions can follow
// immediately.
type fakeConnector struct {
	mu    sync.Mutex
	hooks ConnectorHooks
	state model.ConnState
	sent  []sentMsg
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{state: model.ConnClosed}
}

func (f *fakeConnector) Bind(hooks ConnectorHooks) {
	f.hooks = hooks
}

func (f *fakeConnector) Start() {}

func (f *fakeConnector) Send(msgType protocol.MsgType, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != model.ConnOpen {
		// Mirror the real connector: silently dropped.
		return
	}
	f.sent = append(f.sent, sentMsg{Type: msgType, Payload: payload})
}

func (f *fakeConnector) State() model.ConnState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeConnector) Close() error {
	f.setState(model.ConnClosed)
	return nil
}

// Open simulates a successful connect
func (f *fakeConnector) Open() {
	f.setState(model.ConnOpen)
	if f.hooks.OnOpen != nil {
		f.hooks.OnOpen()
	}
}

// Drop simulates a connection loss
func (f *fakeConnector) Drop() {
	f.setState(model.ConnClosed)
}

// Deliver feeds one inbound message through the client's dispatcher
func (f *fakeConnector) Deliver(msgType protocol.MsgType, payload any) {
	env, err := protocol.NewEnvelope(msgType, payload)
	if err != nil {
		panic(err)
	}
	if f.hooks.OnEnvelope != nil {
		f.hooks.OnEnvelope(env)
	}
}

// Sent returns the outbound messages captured so far
func (f *fakeConnector) Sent() []sentMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMsg(nil), f.sent...)
}

// Reset discards captured messages
func (f *fakeConnector) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

func (f *fakeConnector) setState(state model.ConnState) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
	if f.hooks.OnStateChange != nil {
		f.hooks.OnStateChange(state)
	}
}

// recordingNotifier captures notifications and answers confirmations
// with a scripted response
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	confirm  bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{confirm: true}
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) Confirm(string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.confirm
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}
