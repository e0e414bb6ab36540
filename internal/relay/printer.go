package relay

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// Raw TCP printing ("JetDirect") port used by virtually every thermal
// printer with an ethernet interface.
const RawPrintPort = 9100

// Dial/write timeouts for the printer socket.
const (
	statusDialTimeout = 2 * time.Second
	printDialTimeout  = 5 * time.Second
	printWriteTimeout = 10 * time.Second
	probeTimeout      = 100 * time.Millisecond
)

// NetworkPrinter drives one thermal printer over raw TCP. Each print opens
// a fresh connection; thermal printers drop idle sockets aggressively so
// holding one open buys nothing.
type NetworkPrinter struct {
	mu      sync.Mutex
	address string
	port    int
}

// NewNetworkPrinter returns a printer for address:port.
func NewNetworkPrinter(address string, port int) *NetworkPrinter {
	if port == 0 {
		port = RawPrintPort
	}
	return &NetworkPrinter{address: address, port: port}
}

// Address returns the configured address:port string.
func (p *NetworkPrinter) Address() string {
	return net.JoinHostPort(p.address, fmt.Sprintf("%d", p.port))
}

// Online reports whether the printer accepts TCP connections right now.
func (p *NetworkPrinter) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := net.DialTimeout("tcp", p.Address(), statusDialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Print sends one complete command buffer to the printer.
func (p *NetworkPrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := net.DialTimeout("tcp", p.Address(), printDialTimeout)
	if err != nil {
		return fmt.Errorf("relay: conectar con la impresora %s: %w", p.Address(), err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(printWriteTimeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("relay: enviar datos a la impresora %s: %w", p.Address(), err)
	}
	return nil
}

// DiscoveredPrinter is one printer found during a subnet scan.
type DiscoveredPrinter struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// Discover probes every host of the given /24 subnet prefixes on the raw
// print port. Prefixes are of the form "192.168.1.". Slow by nature; call
// it from an endpoint the user triggers, never on startup.
func Discover(subnets []string) []DiscoveredPrinter {
	discovered := make([]DiscoveredPrinter, 0)

	for _, subnet := range subnets {
		for i := 1; i <= 254; i++ {
			ip := fmt.Sprintf("%s%d", subnet, i)
			if portOpen(ip, RawPrintPort, probeTimeout) {
				discovered = append(discovered, DiscoveredPrinter{
					ID:      fmt.Sprintf("network-%s", ip),
					Name:    fmt.Sprintf("Impresora en %s", ip),
					Address: ip,
					Port:    RawPrintPort,
				})
			}
		}
	}
	return discovered
}

func portOpen(host string, port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// TestReceipt builds the ESC/POS command buffer for the diagnostic receipt
// printed from the relay's test endpoint.
func TestReceipt() []byte {
	var data []byte

	data = append(data, 0x1B, 0x40)       // ESC @ — initialize
	data = append(data, 0x1B, 0x61, 0x01) // ESC a 1 — center
	data = append(data, 0x1B, 0x45, 0x01) // ESC E 1 — bold
	data = append(data, 0x1D, 0x21, 0x11) // GS ! — double size

	data = append(data, []byte("TICKETERA\n")...)

	data = append(data, 0x1D, 0x21, 0x00) // normal size
	data = append(data, 0x1B, 0x45, 0x00) // bold off

	data = append(data, []byte("Relay de impresion\n")...)
	data = append(data, []byte("-------------------\n\n")...)

	data = append(data, 0x1B, 0x61, 0x00) // left
	data = append(data, []byte("Impresion de prueba\n")...)
	data = append(data, []byte(fmt.Sprintf("Hora: %s\n\n", time.Now().Format("02/01/2006 15:04:05")))...)

	data = append(data, 0x1B, 0x61, 0x01) // center
	data = append(data, []byte("-------------------\n")...)
	data = append(data, []byte("Impresora OK\n\n\n")...)

	data = append(data, 0x1D, 0x56, 0x42, 0x00) // GS V 66 0 — partial cut

	return data
}
