package sim

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaud is the link rate the plotter side expects.
const DefaultBaud = 115200

// OpenSerial opens device in 8N1 mode at baud.
func OpenSerial(device string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("sim: open serial %s: %w", device, err)
	}

	return port, nil
}

// ListSerialPorts returns the serial devices visible to the OS.
func ListSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("sim: list serial ports: %w", err)
	}
	return ports, nil
}
