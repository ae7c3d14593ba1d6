package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/lane2go/lane2go/internal/actuation"
	"github.com/lane2go/lane2go/internal/util"
	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

const commandFrameLength = 4

// CanSink transmits commands as CAN frames:
// bytes 0-1 steering angle, bytes 2-3 speed, both signed 16 bit little endian
type CanSink struct {
	iface string
	id    uint32
	conn  net.Conn
	tx    *socketcan.Transmitter
}

func NewCanSink(ctx context.Context, iface string, id uint32) (*CanSink, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial: %w", err)
	}
	return &CanSink{
		iface: iface,
		id:    id,
		conn:  conn,
		tx:    socketcan.NewTransmitter(conn),
	}, nil
}

func (s *CanSink) Name() string {
	return fmt.Sprintf("CAN interface %s (id 0x%X)", s.iface, s.id)
}

func (s *CanSink) Send(ctx context.Context, command actuation.Command) error {
	return s.tx.TransmitFrame(ctx, EncodeCommandFrame(s.id, command))
}

func (s *CanSink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func EncodeCommandFrame(id uint32, command actuation.Command) can.Frame {
	var frame can.Frame
	frame.ID = id
	frame.Length = commandFrameLength
	binary.LittleEndian.PutUint16(frame.Data[0:2], uint16(toInt16(command.Angle)))
	binary.LittleEndian.PutUint16(frame.Data[2:4], uint16(toInt16(command.Speed)))
	return frame
}

func DecodeCommandFrame(frame can.Frame) (actuation.Command, error) {
	if frame.Length != commandFrameLength {
		return actuation.Command{}, fmt.Errorf("frame 0x%X expects DLC %d, got %d", frame.ID, commandFrameLength, frame.Length)
	}
	return actuation.Command{
		Angle: int(int16(binary.LittleEndian.Uint16(frame.Data[0:2]))),
		Speed: int(int16(binary.LittleEndian.Uint16(frame.Data[2:4]))),
	}, nil
}

func toInt16(value int) int16 {
	return int16(util.Coerce(value, -32768, 32767))
}
