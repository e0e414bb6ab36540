package dispatch

// serial.go — serial device transport.
// The capability provider abstracts user-granted serial access (Web Serial
// in a webview shell, a native driver elsewhere); this file owns the
// request → open → write → close sequence. The port is opened and released
// within a single Send — every copy reopens the connection. This is a
// simplicity tradeoff: thermal printers handshake in tens of milliseconds
// and holding the port hostage between copies causes more trouble than the
// reopen costs.

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// SerialBaudRate is the fixed baud rate for thermal printers.
const SerialBaudRate = 9600

// SerialPort is one user-granted serial device.
type SerialPort interface {
	Open(baudRate int) error
	Write(p []byte) (int, error)
	Close() error
}

// SerialProvider requests serial device access from the host. Request may
// block on a user permission prompt; denial is an error.
type SerialProvider interface {
	RequestPort(ctx context.Context) (SerialPort, error)
}

// SerialTransport writes command buffers to a serial thermal printer.
type SerialTransport struct {
	provider SerialProvider
}

func NewSerialTransport(provider SerialProvider) *SerialTransport {
	return &SerialTransport{provider: provider}
}

func (t *SerialTransport) Name() Method { return MethodSerial }

// Send opens the port, writes the whole buffer, and closes. No retries.
func (t *SerialTransport) Send(ctx context.Context, raw []byte) (Result, error) {
	port, err := t.provider.RequestPort(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: acceso al puerto serial denegado: %w", err)
	}

	if err := port.Open(SerialBaudRate); err != nil {
		return Result{}, fmt.Errorf("dispatch: abrir puerto serial: %w", err)
	}

	if _, err := port.Write(raw); err != nil {
		_ = port.Close()
		return Result{}, fmt.Errorf("dispatch: escribir al puerto serial: %w", err)
	}

	if err := port.Close(); err != nil {
		// Data already reached the device; a close failure is not a print
		// failure.
		log.Warn().Err(err).Msg("dispatch: failed to close serial port")
	}
	return Result{Message: "Enviado a impresora Serial"}, nil
}
