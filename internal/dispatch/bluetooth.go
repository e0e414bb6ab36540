package dispatch

// bluetooth.go — wireless device transport.
// Thermal printers expose a well-known GATT serial service; the provider
// abstracts pairing and GATT plumbing, this file owns the request →
// connect → write → disconnect sequence. Like the serial path, the
// connection lives within one Send call.

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// GATT service/characteristic pair exposed by thermal printers.
const (
	PrinterServiceUUID        = "000018f0-0000-1000-8000-00805f9b34fb"
	PrinterCharacteristicUUID = "00002a19-0000-1000-8000-00805f9b34fb"
)

// BluetoothDevice is one user-granted wireless printer.
type BluetoothDevice interface {
	Connect() error
	WriteCharacteristic(serviceUUID, characteristicUUID string, p []byte) error
	Disconnect() error
}

// BluetoothProvider requests a wireless device exposing the given service.
// Request may block on a user pairing prompt; denial is an error.
type BluetoothProvider interface {
	RequestDevice(ctx context.Context, serviceUUID string) (BluetoothDevice, error)
}

// BluetoothTransport writes command buffers to a wireless thermal printer.
type BluetoothTransport struct {
	provider BluetoothProvider
}

func NewBluetoothTransport(provider BluetoothProvider) *BluetoothTransport {
	return &BluetoothTransport{provider: provider}
}

func (t *BluetoothTransport) Name() Method { return MethodBluetooth }

// Send pairs, connects, writes the buffer to the printer characteristic,
// and disconnects. No retries.
func (t *BluetoothTransport) Send(ctx context.Context, raw []byte) (Result, error) {
	device, err := t.provider.RequestDevice(ctx, PrinterServiceUUID)
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: dispositivo Bluetooth no disponible: %w", err)
	}

	if err := device.Connect(); err != nil {
		return Result{}, fmt.Errorf("dispatch: conectar dispositivo Bluetooth: %w", err)
	}

	if err := device.WriteCharacteristic(PrinterServiceUUID, PrinterCharacteristicUUID, raw); err != nil {
		_ = device.Disconnect()
		return Result{}, fmt.Errorf("dispatch: escribir al dispositivo Bluetooth: %w", err)
	}

	if err := device.Disconnect(); err != nil {
		log.Warn().Err(err).Msg("dispatch: failed to disconnect bluetooth device")
	}
	return Result{Message: "Enviado a impresora Bluetooth"}, nil
}
