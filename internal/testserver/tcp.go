package testserver

import (
	"bufio"
	"log/slog"
	"net"

	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// ServeTCP accepts connections speaking the binary packet framing until
// the listener closes
func (s *Server) ServeTCP(l net.Listener) {
	for {
		netConn, err := l.Accept()
		if err != nil {
			s.logger.Debug("tcp accept stopped", slog.String("error", err.Error()))
			return
		}
		go s.serveTCPConn(netConn)
	}
}

func (s *Server) serveTCPConn(netConn net.Conn) {
	var seq uint16
	c := &conn{
		srv: s,
		writeEnv: func(env *protocol.Envelope) error {
			seq++
			data, err := protocol.EncodePacket(env.Type, seq, rawPayload(env))
			if err != nil {
				return err
			}
			_, err = netConn.Write(data)
			return err
		},
	}
	defer func() {
		_ = netConn.Close()
		s.disconnect(c)
	}()

	reader := bufio.NewReader(netConn)
	for {
		pkt, err := protocol.ReadPacket(reader)
		if err != nil {
			return
		}
		s.dispatch(c, pkt.Envelope())
	}
}

// rawPayload passes an already-encoded payload through EncodePacket
// without re-marshalling
func rawPayload(env *protocol.Envelope) any {
	if len(env.Payload) == 0 {
		return nil
	}
	return env.Payload
}
