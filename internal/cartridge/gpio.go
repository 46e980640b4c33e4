package cartridge

import "goba/internal/interfaces"

// gpioWindowLow/High is the cart ROM-space sub-range real carts with a
// GPIO device (RTC, solar sensor, rumble) map their 16-bit registers
// into: halfwords at 0xC4, 0xC6 and 0xC8. The window ends at byte 0xC8
// itself, so 0xC9 is outside it.
const (
	gpioWindowLow  = 0x000000C4
	gpioWindowHigh = 0x000000C8
)

// GPIO is a minimal facade satisfying interfaces.GPIOFacade. Real GPIO
// devices (RTC chips, rumble paks) are out of this module's scope; the
// bus only needs somewhere to route the four register bytes and a flag
// saying whether reads should see GPIO or fall through to ROM.
type GPIO struct {
	regs     [4]byte
	readable bool
}

func NewGPIO() *GPIO { return &GPIO{} }

// SetReadable flips whether GPIO reads are currently exposed on the
// cart bus; real hardware toggles this through a write to the control
// register at 0xC8, which a higher layer (outside this module) decodes.
func (g *GPIO) SetReadable(r bool) { g.readable = r }

func (g *GPIO) Readable() bool { return g.readable }

func (g *GPIO) ReadByte(addr uint32) uint8 {
	return g.regs[addr&3]
}

func (g *GPIO) WriteByte(addr uint32, v uint8) {
	g.regs[addr&3] = v
}

// InWindow reports whether addr (cart ROM-space, region-local offset)
// falls in the GPIO register window.
func InWindow(addr uint32) bool {
	return addr >= gpioWindowLow && addr <= gpioWindowHigh
}

var _ interfaces.GPIOFacade = (*GPIO)(nil)
