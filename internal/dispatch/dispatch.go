// Package dispatch delivers print data to an output channel. Four device
// transports move opaque command buffers (local HTTP relay, serial port,
// bluetooth, on-screen preview) and an OS-print path renders the HTML
// document through the host's print dialog. Every path returns the same
// shape — a Result with a display-ready message, or an error that already
// carries a human-readable description — and none of them retry internally;
// retrying across copies belongs to the caller.
package dispatch

import (
	"context"
	"fmt"
)

// Method identifies the persisted transport preference.
type Method string

const (
	MethodBluetooth Method = "bluetooth"
	MethodSerial    Method = "serial"
	MethodLocal     Method = "local"
	MethodPreview   Method = "preview"
)

// ParseMethod maps a stored preference string to a Method, falling back to
// the preview transport for anything unknown.
func ParseMethod(s string) Method {
	switch Method(s) {
	case MethodBluetooth, MethodSerial, MethodLocal:
		return Method(s)
	default:
		return MethodPreview
	}
}

// Result is the uniform successful outcome of a dispatch.
type Result struct {
	Message string
}

// Transport sends one raw command buffer to a physical or virtual printer.
// A buffer is consumed by exactly one Send call.
type Transport interface {
	Name() Method
	Send(ctx context.Context, raw []byte) (Result, error)
}

// Dispatcher routes a buffer to the transport selected by preference.
type Dispatcher struct {
	transports map[Method]Transport
}

// NewDispatcher builds a dispatcher over the given transports. Later
// registrations for the same method win.
func NewDispatcher(transports ...Transport) *Dispatcher {
	d := &Dispatcher{transports: make(map[Method]Transport, len(transports))}
	for _, t := range transports {
		d.transports[t.Name()] = t
	}
	return d
}

// Send dispatches raw bytes through the transport for method. An
// unregistered method is a configuration error, not a transport fault.
func (d *Dispatcher) Send(ctx context.Context, method Method, raw []byte) (Result, error) {
	t, ok := d.transports[method]
	if !ok {
		return Result{}, fmt.Errorf("dispatch: no hay transporte configurado para %q", method)
	}
	return t.Send(ctx, raw)
}
