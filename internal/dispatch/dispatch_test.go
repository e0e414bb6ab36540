package dispatch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fake capability providers ────────────────────────────────────────────────

type fakeSurface struct {
	doc     string
	printed bool
	closed  bool

	writeErr error
	printErr error
}

func (s *fakeSurface) WriteHTML(doc string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.doc = doc
	return nil
}

func (s *fakeSurface) Print() error {
	if s.printErr != nil {
		return s.printErr
	}
	s.printed = true
	return nil
}

func (s *fakeSurface) Close() error {
	s.closed = true
	return nil
}

type fakeSurfaceProvider struct {
	surfaces  []*fakeSurface
	windows   []*fakeSurface
	windowErr error
}

func (p *fakeSurfaceProvider) NewHiddenSurface() (Surface, error) {
	s := &fakeSurface{}
	p.surfaces = append(p.surfaces, s)
	return s, nil
}

func (p *fakeSurfaceProvider) NewWindow(title string) (Surface, error) {
	if p.windowErr != nil {
		return nil, p.windowErr
	}
	s := &fakeSurface{}
	p.windows = append(p.windows, s)
	return s, nil
}

type fakeSerialPort struct {
	opened   int
	baud     int
	written  []byte
	closed   bool
	writeErr error
}

func (p *fakeSerialPort) Open(baud int) error {
	p.opened++
	p.baud = baud
	return nil
}

func (p *fakeSerialPort) Write(data []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.written = append(p.written, data...)
	return len(data), nil
}

func (p *fakeSerialPort) Close() error {
	p.closed = true
	return nil
}

type fakeSerialProvider struct {
	port       *fakeSerialPort
	requestErr error
}

func (p *fakeSerialProvider) RequestPort(_ context.Context) (SerialPort, error) {
	if p.requestErr != nil {
		return nil, p.requestErr
	}
	return p.port, nil
}

type fakeBTDevice struct {
	connected    bool
	disconnected bool
	service      string
	char         string
	written      []byte
	writeErr     error
}

func (d *fakeBTDevice) Connect() error { d.connected = true; return nil }

func (d *fakeBTDevice) WriteCharacteristic(service, char string, data []byte) error {
	if d.writeErr != nil {
		return d.writeErr
	}
	d.service, d.char = service, char
	d.written = append(d.written, data...)
	return nil
}

func (d *fakeBTDevice) Disconnect() error { d.disconnected = true; return nil }

type fakeBTProvider struct {
	device     *fakeBTDevice
	requestErr error
}

func (p *fakeBTProvider) RequestDevice(_ context.Context, service string) (BluetoothDevice, error) {
	if p.requestErr != nil {
		return nil, p.requestErr
	}
	return p.device, nil
}

// ── Dispatcher ───────────────────────────────────────────────────────────────

func TestParseMethod(t *testing.T) {
	assert.Equal(t, MethodBluetooth, ParseMethod("bluetooth"))
	assert.Equal(t, MethodSerial, ParseMethod("serial"))
	assert.Equal(t, MethodLocal, ParseMethod("local"))
	assert.Equal(t, MethodPreview, ParseMethod("preview"))
	// Unknown preferences fall back to preview
	assert.Equal(t, MethodPreview, ParseMethod("usb"))
	assert.Equal(t, MethodPreview, ParseMethod(""))
}

func TestDispatcherRouting(t *testing.T) {
	port := &fakeSerialPort{}
	d := NewDispatcher(NewSerialTransport(&fakeSerialProvider{port: port}))

	res, err := d.Send(context.Background(), MethodSerial, []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "Enviado a impresora Serial", res.Message)

	_, err = d.Send(context.Background(), MethodBluetooth, []byte("data"))
	assert.ErrorContains(t, err, "no hay transporte configurado")
}

// ── Serial transport ─────────────────────────────────────────────────────────

func TestSerialSend(t *testing.T) {
	port := &fakeSerialPort{}
	tr := NewSerialTransport(&fakeSerialProvider{port: port})

	res, err := tr.Send(context.Background(), []byte{0x1B, 0x40})
	require.NoError(t, err)
	assert.Equal(t, "Enviado a impresora Serial", res.Message)
	assert.Equal(t, 9600, port.baud)
	assert.Equal(t, []byte{0x1B, 0x40}, port.written)
	assert.True(t, port.closed)
}

func TestSerialSendDenied(t *testing.T) {
	tr := NewSerialTransport(&fakeSerialProvider{requestErr: errors.New("denied")})
	_, err := tr.Send(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "acceso al puerto serial denegado")
}

func TestSerialSendWriteFailureClosesPort(t *testing.T) {
	port := &fakeSerialPort{writeErr: errors.New("device gone")}
	tr := NewSerialTransport(&fakeSerialProvider{port: port})

	_, err := tr.Send(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "escribir al puerto serial")
	assert.True(t, port.closed)
}

// ── Bluetooth transport ──────────────────────────────────────────────────────

func TestBluetoothSend(t *testing.T) {
	device := &fakeBTDevice{}
	tr := NewBluetoothTransport(&fakeBTProvider{device: device})

	res, err := tr.Send(context.Background(), []byte("ticket"))
	require.NoError(t, err)
	assert.Equal(t, "Enviado a impresora Bluetooth", res.Message)
	assert.True(t, device.connected)
	assert.True(t, device.disconnected)
	assert.Equal(t, PrinterServiceUUID, device.service)
	assert.Equal(t, PrinterCharacteristicUUID, device.char)
	assert.Equal(t, []byte("ticket"), device.written)
}

func TestBluetoothSendWriteFailureDisconnects(t *testing.T) {
	device := &fakeBTDevice{writeErr: errors.New("link lost")}
	tr := NewBluetoothTransport(&fakeBTProvider{device: device})

	_, err := tr.Send(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "escribir al dispositivo Bluetooth")
	assert.True(t, device.disconnected)
}

// ── Relay transport ──────────────────────────────────────────────────────────

func TestRelaySend(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = body["command"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewRelayTransport(srv.URL)
	res, err := tr.Send(context.Background(), []byte{0x1B, 0x40, 'O', 'K'})
	require.NoError(t, err)
	assert.Equal(t, "Enviado a impresora local", res.Message)

	raw, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x40, 'O', 'K'}, raw)
}

func TestRelaySendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRelayTransport(srv.URL).Send(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "respondió 502")
}

func TestRelaySendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewRelayTransport(srv.URL).Send(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "servidor local inaccesible")
}

// ── Preview transport ────────────────────────────────────────────────────────

func TestPreviewSend(t *testing.T) {
	provider := &fakeSurfaceProvider{}
	tr := NewPreviewTransport(provider)

	res, err := tr.Send(context.Background(), []byte{0x1B, 0x40, 'T', 'O', 'T', 'A', 'L', 0x0A})
	require.NoError(t, err)
	assert.Equal(t, "Abierta vista previa", res.Message)

	require.Len(t, provider.windows, 1)
	doc := provider.windows[0].doc
	assert.Contains(t, doc, "[ESC]@TOTAL")
	assert.Contains(t, doc, "<pre>")
}

func TestPreviewSendWindowBlocked(t *testing.T) {
	provider := &fakeSurfaceProvider{windowErr: errors.New("blocked")}
	tr := NewPreviewTransport(provider)

	_, err := tr.Send(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "ventanas emergentes")
}

// ── OS print path ────────────────────────────────────────────────────────────

func TestPrintDocument(t *testing.T) {
	provider := &fakeSurfaceProvider{}
	p := NewPrinter(provider)

	res, err := p.PrintDocument(context.Background(), "<html>doc</html>")
	require.NoError(t, err)
	assert.Equal(t, "El ticket se imprimió correctamente", res.Message)

	require.Len(t, provider.surfaces, 1)
	assert.Equal(t, "<html>doc</html>", provider.surfaces[0].doc)
	assert.True(t, provider.surfaces[0].printed)
}

func TestPrintDocumentCancelled(t *testing.T) {
	provider := &fakeSurfaceProvider{}
	p := NewPrinter(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.PrintDocument(ctx, "<html>doc</html>")
	assert.ErrorIs(t, err, context.Canceled)
	// Surface must not leak after cancellation
	require.Len(t, provider.surfaces, 1)
	assert.True(t, provider.surfaces[0].closed)
	assert.False(t, provider.surfaces[0].printed)
}

func TestPreviewDocument(t *testing.T) {
	provider := &fakeSurfaceProvider{}
	p := NewPrinter(provider)

	res, err := p.Preview("<html>doc</html>")
	require.NoError(t, err)
	assert.Equal(t, "Abierta vista previa", res.Message)
	require.Len(t, provider.windows, 1)
	assert.Equal(t, "<html>doc</html>", provider.windows[0].doc)
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	path, err := Download("<html>doc</html>", 1042, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.Contains(t, path, "ticket-1042-")
	assert.True(t, strings.HasSuffix(path, ".html"))
}
