// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/TheAnsarya/ableton-snes-spc/internal/transport"
)

// Packet layout, all fields big-endian:
//
//	offset 0: magic      uint16  0x5343 ("SC")
//	offset 2: seq        uint32
//	offset 6: bandCount  uint16
//	offset 8: flags      uint8   bit 0 = peaks enabled
//	offset 9: bands      float32 × bandCount
//	then:     peaks      float32 × bandCount
const (
	packetMagic   = uint16(0x5343)
	flagShowPeaks = uint8(1 << 0)
)

// Transport adapts a Sender to the frame-publishing interface by packing
// each frame into the binary layout above. Not safe for concurrent Send
// calls; the publisher invokes it from a single goroutine.
type Transport struct {
	sender *Sender
	buf    bytes.Buffer // Reused across packets.
	f32    []float32    // Reused float32 staging buffer.
}

// NewTransport wraps an existing Sender.
func NewTransport(sender *Sender) (*Transport, error) {
	if sender == nil {
		return nil, fmt.Errorf("udp transport: sender cannot be nil")
	}
	return &Transport{sender: sender}, nil
}

// Send packs a *transport.Frame and transmits it as one datagram.
func (t *Transport) Send(data any) error {
	frame, ok := data.(*transport.Frame)
	if !ok {
		return fmt.Errorf("udp transport: unsupported payload type %T", data)
	}
	return t.sender.Send(t.pack(frame))
}

// Close closes the underlying sender.
func (t *Transport) Close() error {
	return t.sender.Close()
}

// pack serializes frame into the reusable packet buffer and returns its
// bytes, valid until the next pack call.
func (t *Transport) pack(frame *transport.Frame) []byte {
	t.buf.Reset()

	var header [9]byte
	binary.BigEndian.PutUint16(header[0:2], packetMagic)
	binary.BigEndian.PutUint32(header[2:6], frame.Seq)
	binary.BigEndian.PutUint16(header[6:8], uint16(len(frame.Bands)))
	if frame.ShowPeaks {
		header[8] = flagShowPeaks
	}
	t.buf.Write(header[:])

	t.writeF32(frame.Bands)
	t.writeF32(frame.Peaks)
	return t.buf.Bytes()
}

func (t *Transport) writeF32(values []float64) {
	if cap(t.f32) < len(values) {
		t.f32 = make([]float32, len(values))
	}
	t.f32 = t.f32[:len(values)]
	for i, v := range values {
		t.f32[i] = float32(v)
	}
	var scratch [4]byte
	for _, v := range t.f32 {
		binary.BigEndian.PutUint32(scratch[:], math.Float32bits(v))
		t.buf.Write(scratch[:])
	}
}
