package memory

import (
	"testing"

	"github.com/valerio/go-advance/advance/addr"
)

func TestWaitstateTableDefaults(t *testing.T) {
	m := newTestMMU(nil)

	tests := []struct {
		name   string
		table  *[2][256]int
		access Access
		region int
		want   int
	}{
		{"BIOS 16", &m.cycles16, NonSequential, regionBIOS, 1},
		{"IWRAM 32", &m.cycles32, Sequential, regionIWRAM, 1},
		{"MMIO 16", &m.cycles16, NonSequential, regionMMIO, 1},
		{"OAM 32", &m.cycles32, NonSequential, regionOAM, 1},
		{"EWRAM 16", &m.cycles16, Sequential, regionEWRAM, 3},
		{"EWRAM 32", &m.cycles32, NonSequential, regionEWRAM, 6},
		{"PRAM 16", &m.cycles16, NonSequential, regionPRAM, 1},
		{"PRAM 32", &m.cycles32, Sequential, regionPRAM, 2},
		{"VRAM 32", &m.cycles32, NonSequential, regionVRAM, 2},
		{"SRAM 16", &m.cycles16, Sequential, regionSRAM1, 5},
		{"SRAM 32", &m.cycles32, NonSequential, regionSRAM2, 5},
		{"ROM WS0 16 N", &m.cycles16, NonSequential, regionROMW0L, 5},
		{"ROM WS0 16 S", &m.cycles16, Sequential, regionROMW0L, 3},
		{"ROM WS0 32 N", &m.cycles32, NonSequential, regionROMW0H, 8},
		{"ROM WS0 32 S", &m.cycles32, Sequential, regionROMW0H, 6},
		{"ROM WS1 16 N", &m.cycles16, NonSequential, regionROMW1L, 5},
		{"ROM WS1 16 S", &m.cycles16, Sequential, regionROMW1L, 5},
		{"ROM WS2 16 S", &m.cycles16, Sequential, regionROMW2H, 9},
		{"ROM WS2 32 S", &m.cycles32, Sequential, regionROMW2H, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table[tt.access][tt.region]; got != tt.want {
				t.Errorf("got %d cycles; want %d", got, tt.want)
			}
		})
	}
}

func TestWaitstateTableProgrammed(t *testing.T) {
	m := newTestMMU(nil)

	// sram=3, ws0_n=1, ws0_s=1, ws1_n=2, ws1_s=1, ws2_n=3, ws2_s=1.
	m.WriteHalf(addr.WAITCNT, 3|1<<2|1<<4|2<<5|1<<7|3<<8|1<<10, NonSequential)

	if got := m.cycles16[NonSequential][regionSRAM1]; got != 9 {
		t.Errorf("SRAM = %d; want 9", got)
	}
	if got := m.cycles16[NonSequential][regionROMW0L]; got != 4 {
		t.Errorf("WS0 N = %d; want 4", got)
	}
	if got := m.cycles16[Sequential][regionROMW0L]; got != 2 {
		t.Errorf("WS0 S = %d; want 2", got)
	}
	if got := m.cycles16[Sequential][regionROMW1L]; got != 2 {
		t.Errorf("WS1 S = %d; want 2", got)
	}
	if got := m.cycles16[NonSequential][regionROMW2L]; got != 9 {
		t.Errorf("WS2 N = %d; want 9", got)
	}
	if got := m.cycles32[NonSequential][regionROMW2L]; got != 11 {
		t.Errorf("WS2 32 N = %d; want 11", got)
	}
	if got := m.cycles32[Sequential][regionROMW2L]; got != 4 {
		t.Errorf("WS2 32 S = %d; want 4", got)
	}
}

func TestWaitstateTableGuardRegions(t *testing.T) {
	m := newTestMMU(nil)

	// Region codes above 0xF are reachable only through guarded lookups
	// on addresses with bits 31..28 set; they always cost a single cycle.
	for _, region := range []int{0x10, 0x42, 0xFF} {
		for _, access := range []Access{NonSequential, Sequential} {
			if got := m.cycles16[access][region]; got != 1 {
				t.Errorf("cycles16[%d][0x%02X] = %d; want 1", access, region, got)
			}
			if got := m.cycles32[access][region]; got != 1 {
				t.Errorf("cycles32[%d][0x%02X] = %d; want 1", access, region, got)
			}
		}
	}
}

func TestWaitcntCGBReadOnly(t *testing.T) {
	m := newTestMMU(nil)

	m.WriteHalf(addr.WAITCNT, 0x8000, NonSequential)
	if got := m.ReadHalf(addr.WAITCNT, NonSequential); got&0x8000 != 0 {
		t.Errorf("WAITCNT = 0x%04X; cgb bit must stay clear", got)
	}
}
