package memory

// Memory regions, indexed by address bits 27..24. The bus entry points
// dispatch on the whole of address >> 24, so an address with any of bits
// 31..28 set matches none of these regions and is treated as unmapped.
const (
	regionBIOS   = 0x0
	regionEWRAM  = 0x2
	regionIWRAM  = 0x3
	regionMMIO   = 0x4
	regionPRAM   = 0x5
	regionVRAM   = 0x6
	regionOAM    = 0x7
	regionROMW0L = 0x8
	regionROMW0H = 0x9
	regionROMW1L = 0xA
	regionROMW1H = 0xB
	regionROMW2L = 0xC
	regionROMW2H = 0xD
	regionSRAM1  = 0xE
	regionSRAM2  = 0xF
)

// On-chip buffer sizes.
const (
	biosSize  = 0x04000
	ewramSize = 0x40000
	iwramSize = 0x08000
	pramSize  = 0x00400
	vramSize  = 0x18000
	oamSize   = 0x00400
)

func region(address uint32) int {
	return int(address>>24) & 0xF
}

func isROMAddress(address uint32) bool {
	r := region(address)
	return r >= regionROMW0L && r <= regionROMW2H
}

// foldVRAM applies the VRAM mirror: 128 KiB pages with the last 32 KiB
// mirroring the 64..96 KiB OBJ range.
func foldVRAM(address uint32) uint32 {
	address &= 0x1FFFF
	if address >= 0x18000 {
		address &^= 0x8000
	}
	return address
}
