package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mcoot/gomokuclient-go/internal/client"
	"github.com/mcoot/gomokuclient-go/internal/credentials/file"
	"github.com/mcoot/gomokuclient-go/internal/model"
)

// defaultTimeout bounds how long a one-shot command waits for the
// server's answer
const defaultTimeout = 10 * time.Second

// Session wraps the client runtime for command use: dial, wait for
// specific events, tear down.
type Session struct {
	Client *client.Client
	creds  *file.Store
	events <-chan model.Event
}

// dial creates and starts a client per the CLI configuration
func dial(cfg *Config, notifier client.Notifier) (*Session, error) {
	logLevel := slog.LevelWarn
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	creds := file.New(cfg.TokenFile)

	clientCfg := client.Config{
		ServerURL:   cfg.ServerURL,
		Credentials: creds,
		Notifier:    notifier,
		Logger:      logger,
	}
	if cfg.Transport == "tcp" {
		addr, err := tcpAddr(cfg.ServerURL)
		if err != nil {
			return nil, err
		}
		clientCfg.Transport = client.NewTCPConnector(addr, nil, logger)
	}

	c, err := client.New(clientCfg)
	if err != nil {
		return nil, err
	}

	s := &Session{Client: c, creds: creds, events: c.Events()}
	c.Start()
	return s, nil
}

// Close tears the session down
func (s *Session) Close() error {
	return s.Client.Close()
}

// Await blocks until an event of one of the given types arrives,
// discarding everything else
func (s *Session) Await(timeout time.Duration, types ...model.EventType) (model.Event, error) {
	deadline := time.After(timeout)
	for {
		select {
		case event := <-s.events:
			for _, t := range types {
				if event.Type == t {
					return event, nil
				}
			}
		case <-deadline:
			return model.Event{}, fmt.Errorf("timed out waiting for server response")
		}
	}
}

// AwaitOpen blocks until the transport connects
func (s *Session) AwaitOpen(timeout time.Duration) error {
	if s.Client.ConnState() == model.ConnOpen {
		return nil
	}
	deadline := time.After(timeout)
	for {
		select {
		case event := <-s.events:
			if event.Type != model.EventConnStateChanged {
				continue
			}
			if p, ok := event.Payload.(model.ConnStateChangedPayload); ok && p.State == model.ConnOpen {
				return nil
			}
		case <-deadline:
			return fmt.Errorf("timed out connecting to server")
		}
	}
}

// AwaitLogin blocks until the stored token has been exchanged for a
// session. It fails when no token is stored.
func (s *Session) AwaitLogin(timeout time.Duration) error {
	token, err := s.creds.Get()
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("not logged in: run 'gomoku login' first")
	}
	if _, err := s.Await(timeout, model.EventSessionEstablished); err != nil {
		return fmt.Errorf("login with stored token failed: %w", err)
	}
	return nil
}

// tcpAddr extracts host:port from the server base URL
func tcpAddr(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q has no host", serverURL)
	}
	return u.Host, nil
}

// terminalNotifier surfaces server messages and confirmations on the
// terminal
type terminalNotifier struct {
	in *bufio.Reader
}

func newTerminalNotifier() *terminalNotifier {
	return &terminalNotifier{in: bufio.NewReader(os.Stdin)}
}

func (n *terminalNotifier) Notify(message string) {
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

func (n *terminalNotifier) Confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := n.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
