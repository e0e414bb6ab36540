package printctl

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketera/internal/config"
	"ticketera/internal/dispatch"
	"ticketera/internal/ticket"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeEncoder struct {
	calls  int
	failOn int // 1-based call number that fails; 0 never fails
}

func (e *fakeEncoder) Generate(_ context.Context, saleID int64, _ ticket.BusinessProfile, _ ticket.TicketConfig) (string, error) {
	e.calls++
	if e.failOn != 0 && e.calls == e.failOn {
		return "", errors.New("Impresora no conectada")
	}
	// Distinct buffer per call so reuse would be visible
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("buffer-%d", e.calls))), nil
}

type fakeTransport struct {
	method dispatch.Method
	sent   [][]byte
	failOn int
}

func (t *fakeTransport) Name() dispatch.Method { return t.method }

func (t *fakeTransport) Send(_ context.Context, raw []byte) (dispatch.Result, error) {
	t.sent = append(t.sent, raw)
	if t.failOn != 0 && len(t.sent) == t.failOn {
		return dispatch.Result{}, errors.New("dispatch: servidor local inaccesible")
	}
	return dispatch.Result{Message: "Enviado a impresora local"}, nil
}

type fakeNotifier struct {
	messages   []string
	severities []string
}

func (n *fakeNotifier) Show(message, severity string) {
	n.messages = append(n.messages, message)
	n.severities = append(n.severities, severity)
}

type fakeSurface struct {
	doc     string
	printed bool
}

func (s *fakeSurface) WriteHTML(doc string) error { s.doc = doc; return nil }
func (s *fakeSurface) Print() error               { s.printed = true; return nil }
func (s *fakeSurface) Close() error               { return nil }

type fakeSurfaceProvider struct {
	surfaces []*fakeSurface
}

func (p *fakeSurfaceProvider) NewHiddenSurface() (dispatch.Surface, error) {
	s := &fakeSurface{}
	p.surfaces = append(p.surfaces, s)
	return s, nil
}

func (p *fakeSurfaceProvider) NewWindow(string) (dispatch.Surface, error) {
	s := &fakeSurface{}
	p.surfaces = append(p.surfaces, s)
	return s, nil
}

func testJob(copies int) *ticket.PrintJob {
	return &ticket.PrintJob{
		Sale:    &ticket.Sale{ID: 7},
		Profile: ticket.DefaultBusinessProfile(),
		Config:  ticket.DefaultTicketConfig(),
		Copies:  copies,
	}
}

func newTestController(encoder Encoder, transport dispatch.Transport, provider dispatch.SurfaceProvider, notifier Notifier, prefs config.Prefs) *Controller {
	c := NewController(encoder, dispatch.NewDispatcher(transport), dispatch.NewPrinter(provider), notifier, prefs)
	c.copyDelay = 0 // no inter-copy waits in tests
	return c
}

// ── Device-command path ──────────────────────────────────────────────────────

func TestPrintDeviceSingleCopy(t *testing.T) {
	encoder := &fakeEncoder{}
	transport := &fakeTransport{method: dispatch.MethodLocal}
	notifier := &fakeNotifier{}
	prefs := config.Prefs{PrintMethod: "local", EscposEnabled: true, CopiesCount: 1}

	c := newTestController(encoder, transport, &fakeSurfaceProvider{}, notifier, prefs)
	err := c.Print(context.Background(), testJob(1))

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, c.State())
	assert.Equal(t, 1, encoder.calls)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, []string{"El ticket se imprimió correctamente"}, notifier.messages)
	assert.Equal(t, []string{SeveritySuccess}, notifier.severities)
}

func TestPrintDeviceFreshBufferPerCopy(t *testing.T) {
	encoder := &fakeEncoder{}
	transport := &fakeTransport{method: dispatch.MethodLocal}
	notifier := &fakeNotifier{}
	prefs := config.Prefs{PrintMethod: "local", EscposEnabled: true}

	c := newTestController(encoder, transport, &fakeSurfaceProvider{}, notifier, prefs)
	err := c.Print(context.Background(), testJob(3))

	require.NoError(t, err)
	assert.Equal(t, 3, encoder.calls)
	require.Len(t, transport.sent, 3)
	// Each copy carries its own buffer, never a reused one
	assert.Equal(t, []byte("buffer-1"), transport.sent[0])
	assert.Equal(t, []byte("buffer-2"), transport.sent[1])
	assert.Equal(t, []byte("buffer-3"), transport.sent[2])
	assert.Equal(t, []string{"Se imprimieron 3 copias correctamente"}, notifier.messages)
}

func TestPrintDeviceAbortsOnFailure(t *testing.T) {
	encoder := &fakeEncoder{}
	transport := &fakeTransport{method: dispatch.MethodLocal, failOn: 2}
	notifier := &fakeNotifier{}
	prefs := config.Prefs{PrintMethod: "local", EscposEnabled: true}

	c := newTestController(encoder, transport, &fakeSurfaceProvider{}, notifier, prefs)
	err := c.Print(context.Background(), testJob(3))

	require.Error(t, err)
	assert.Equal(t, StateFailure, c.State())
	// Copy 2 failed: exactly 2 attempts, the third never happens
	assert.Len(t, transport.sent, 2)
	assert.Equal(t, 2, encoder.calls)
	require.Len(t, notifier.severities, 1)
	assert.Equal(t, SeverityError, notifier.severities[0])
	assert.Contains(t, notifier.messages[0], "servidor local inaccesible")
}

func TestPrintDeviceEncoderFailure(t *testing.T) {
	encoder := &fakeEncoder{failOn: 1}
	transport := &fakeTransport{method: dispatch.MethodLocal}
	notifier := &fakeNotifier{}
	prefs := config.Prefs{PrintMethod: "local", EscposEnabled: true}

	c := newTestController(encoder, transport, &fakeSurfaceProvider{}, notifier, prefs)
	err := c.Print(context.Background(), testJob(2))

	require.Error(t, err)
	// Nothing was dispatched: the buffer never existed
	assert.Empty(t, transport.sent)
	assert.Equal(t, "Impresora no conectada", notifier.messages[0])
}

// ── OS print path ────────────────────────────────────────────────────────────

func TestPrintDialogCopies(t *testing.T) {
	encoder := &fakeEncoder{}
	provider := &fakeSurfaceProvider{}
	notifier := &fakeNotifier{}
	prefs := config.Prefs{PrintMethod: "preview", EscposEnabled: false}

	c := newTestController(encoder, &fakeTransport{method: dispatch.MethodLocal}, provider, notifier, prefs)
	err := c.Print(context.Background(), testJob(2))

	require.NoError(t, err)
	// Rendered once per copy through the OS path, no device buffers
	assert.Equal(t, 0, encoder.calls)
	require.Len(t, provider.surfaces, 2)
	assert.True(t, provider.surfaces[0].printed)
	assert.True(t, provider.surfaces[1].printed)
	// Same document on both surfaces
	assert.Equal(t, provider.surfaces[0].doc, provider.surfaces[1].doc)
	assert.Contains(t, provider.surfaces[0].doc, "TICKET #7")
	assert.Equal(t, []string{"Se imprimieron 2 copias correctamente"}, notifier.messages)
}

// ── Gates and clamping ───────────────────────────────────────────────────────

func TestPrintDisabled(t *testing.T) {
	notifier := &fakeNotifier{}
	prefs := config.Prefs{EscposEnabled: true, PrintMethod: "local"}
	c := newTestController(&fakeEncoder{}, &fakeTransport{method: dispatch.MethodLocal}, &fakeSurfaceProvider{}, notifier, prefs)

	job := testJob(1)
	job.Config.EnablePrint = false

	err := c.Print(context.Background(), job)
	assert.ErrorIs(t, err, ErrPrintingDisabled)
	assert.Empty(t, notifier.messages)
}

func TestPrintClampsCopies(t *testing.T) {
	encoder := &fakeEncoder{}
	transport := &fakeTransport{method: dispatch.MethodLocal}
	prefs := config.Prefs{PrintMethod: "local", EscposEnabled: true}

	c := newTestController(encoder, transport, &fakeSurfaceProvider{}, &fakeNotifier{}, prefs)
	err := c.Print(context.Background(), testJob(12))

	require.NoError(t, err)
	assert.Equal(t, ticket.MaxCopies, len(transport.sent))
}

func TestPrintDefaultsToPrefsCopies(t *testing.T) {
	encoder := &fakeEncoder{}
	transport := &fakeTransport{method: dispatch.MethodLocal}
	prefs := config.Prefs{PrintMethod: "local", EscposEnabled: true, CopiesCount: 2}

	c := newTestController(encoder, transport, &fakeSurfaceProvider{}, &fakeNotifier{}, prefs)
	err := c.Print(context.Background(), testJob(0))

	require.NoError(t, err)
	assert.Len(t, transport.sent, 2)
}

func TestPrintCancelledBetweenCopies(t *testing.T) {
	encoder := &fakeEncoder{}
	transport := &fakeTransport{method: dispatch.MethodLocal}
	prefs := config.Prefs{PrintMethod: "local", EscposEnabled: true}

	c := NewController(encoder, dispatch.NewDispatcher(transport), dispatch.NewPrinter(&fakeSurfaceProvider{}), &fakeNotifier{}, prefs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Print(ctx, testJob(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	// First copy completes, the wait before the second observes the cancel
	assert.Len(t, transport.sent, 1)
	assert.Equal(t, StateFailure, c.State())
}

// ── Download / preview ───────────────────────────────────────────────────────

func TestDownload(t *testing.T) {
	notifier := &fakeNotifier{}
	c := newTestController(&fakeEncoder{}, &fakeTransport{method: dispatch.MethodLocal}, &fakeSurfaceProvider{}, notifier, config.DefaultPrefs())

	dir := t.TempDir()
	path, err := c.Download(testJob(1), dir)
	require.NoError(t, err)
	assert.Contains(t, path, "ticket-7-")
	assert.Equal(t, []string{"El ticket se descargó correctamente"}, notifier.messages)
}

func TestPreview(t *testing.T) {
	provider := &fakeSurfaceProvider{}
	c := newTestController(&fakeEncoder{}, &fakeTransport{method: dispatch.MethodLocal}, provider, &fakeNotifier{}, config.DefaultPrefs())

	err := c.Preview(testJob(1))
	require.NoError(t, err)
	require.Len(t, provider.surfaces, 1)
	assert.Contains(t, provider.surfaces[0].doc, "TICKET #7")
}
