// Package wire is the binary record format events, bullets, statuses and
// battle results use when they cross a robot's isolation boundary or are
// written to a battle record.
//
// A frame is a 12 byte big endian header (magic, version, payload length)
// followed by one record. A record is a type tag byte and the type's fields
// in declaration order. Strings are an int32 byte length followed by UTF-8.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	Magic   uint32 = 0xC0DEDEA1
	Version int32  = 0x01080201

	HeaderSize     = 12
	MaxMessageSize = 1024 * 1024
)

// Type tags.
const (
	TypeTerminator      byte = 0xFF
	TypeRobotStatus     byte = 6
	TypeBulletStatus    byte = 7
	TypeBattleResults   byte = 8
	TypeBullet          byte = 9
	TypeBattleEnded     byte = 32
	TypeBulletHitBullet byte = 33
	TypeBulletHit       byte = 34
	TypeBulletMissed    byte = 35
	TypeDeath           byte = 36
	TypeWin             byte = 37
	TypeHitWall         byte = 38
	TypeRobotDeath      byte = 39
	TypeSkippedTurn     byte = 40
	TypeScannedRobot    byte = 41
	TypeHitByBullet     byte = 42
	TypeHitRobot        byte = 43
	TypeKeyPressed      byte = 44
	TypeKeyReleased     byte = 45
	TypeKeyTyped        byte = 46
	TypeMouseClicked    byte = 47
	TypeMouseDragged    byte = 48
	TypeMouseEntered    byte = 49
	TypeMouseExited     byte = 50
	TypeMouseMoved      byte = 51
	TypeMousePressed    byte = 52
	TypeMouseReleased   byte = 53
	TypeMouseWheelMoved byte = 54
	TypeRoundEnded      byte = 55
	TypeStatus          byte = 56
)

// Header frames one record.
type Header struct {
	Magic   uint32
	Version int32
	Length  uint32
}

func appendHeader(dst []byte, length int) []byte {
	dst = binary.BigEndian.AppendUint32(dst, Magic)
	dst = binary.BigEndian.AppendUint32(dst, uint32(Version))
	return binary.BigEndian.AppendUint32(dst, uint32(length))
}

func parseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("short header: %d bytes", len(b))
	}
	h := Header{
		Magic:   binary.BigEndian.Uint32(b[0:4]),
		Version: int32(binary.BigEndian.Uint32(b[4:8])),
		Length:  binary.BigEndian.Uint32(b[8:12]),
	}
	if h.Magic != Magic {
		return h, fmt.Errorf("bad magic 0x%08X", h.Magic)
	}
	if h.Version != Version {
		return h, fmt.Errorf("version mismatch: got 0x%08X, want 0x%08X", h.Version, Version)
	}
	if h.Length > MaxMessageSize {
		return h, fmt.Errorf("message too large: %d > %d", h.Length, MaxMessageSize)
	}
	return h, nil
}

// WriteFrame writes v as one framed record.
func WriteFrame(w io.Writer, v any) error {
	frame, err := Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one framed record from r.
func ReadFrame(r io.Reader) (any, error) {
	head := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h, err := parseHeader(head)
	if err != nil {
		return nil, err
	}

	body := make([]byte, h.Length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return UnmarshalRecord(body)
}
