package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Binary framing used by the TCP transport. Each packet is an 8-byte
// big-endian header {len u32, type u16, seq u16} followed by a JSON body.
const (
	headerLen  = 8
	maxBodyLen = 65535
)

var (
	ErrInvalidPacket  = errors.New("invalid packet")
	ErrPacketTooLarge = errors.New("packet too large")
)

// Packet is one framed message on the TCP transport.
type Packet struct {
	Type    MsgType
	Seq     uint16
	Payload []byte
}

// EncodePacket frames a payload value for the TCP transport.
func EncodePacket(msgType MsgType, seq uint16, payload any) ([]byte, error) {
	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		return nil, err
	}
	body := []byte(env.Payload)
	if len(body) > maxBodyLen {
		return nil, ErrPacketTooLarge
	}

	buf := make([]byte, headerLen+len(body))
	binary.BigEndian.PutUint32(buf[0:4], uint32(headerLen+len(body)))
	binary.BigEndian.PutUint16(buf[4:6], uint16(msgType))
	binary.BigEndian.PutUint16(buf[6:8], seq)
	copy(buf[headerLen:], body)
	return buf, nil
}

// ReadPacket reads one framed packet from r, blocking until a full packet
// arrives or the reader fails.
func ReadPacket(r io.Reader) (*Packet, error) {
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	total := binary.BigEndian.Uint32(header[0:4])
	if total < headerLen || total > headerLen+maxBodyLen {
		return nil, fmt.Errorf("%w: declared length %d", ErrInvalidPacket, total)
	}

	p := &Packet{
		Type: MsgType(binary.BigEndian.Uint16(header[4:6])),
		Seq:  binary.BigEndian.Uint16(header[6:8]),
	}

	if bodyLen := total - headerLen; bodyLen > 0 {
		p.Payload = make([]byte, bodyLen)
		if _, err := io.ReadFull(r, p.Payload); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Envelope converts the packet to the common envelope form consumed by
// the dispatcher.
func (p *Packet) Envelope() *Envelope {
	return &Envelope{Type: p.Type, Payload: p.Payload}
}
