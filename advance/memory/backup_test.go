package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackupDetection(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want BackupKind
	}{
		{"SRAM", "SRAM_V113", BackupSRAM},
		{"Flash 64K", "FLASH_V126", BackupFlash64},
		{"Flash 512", "FLASH512_V131", BackupFlash64},
		{"Flash 1M", "FLASH1M_V103", BackupFlash128},
		{"EEPROM", "EEPROM_V124", BackupEEPROM8K},
		{"none", "", BackupNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rom := testROM(0x1000)
			copy(rom[0x400:], tt.tag)
			pak := NewGamePak(rom)
			if tt.want == BackupNone {
				assert.Nil(t, pak.Backup)
				return
			}
			assert.Equal(t, tt.want, pak.Backup.Kind)
		})
	}
}

func TestSRAMBackup(t *testing.T) {
	b := NewBackup(BackupSRAM)

	assert.Equal(t, uint8(0xFF), b.Read(0x0E000000))
	b.Write(0x0E000123, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0x0E000123))
}

func TestFlashBackup(t *testing.T) {
	command := func(b *Backup, cmd uint8) {
		b.Write(0x5555, 0xAA)
		b.Write(0x2AAA, 0x55)
		b.Write(0x5555, cmd)
	}

	t.Run("chip identification", func(t *testing.T) {
		b := NewBackup(BackupFlash64)
		command(b, 0x90)
		assert.Equal(t, uint8(0x32), b.Read(0))
		assert.Equal(t, uint8(0x1B), b.Read(1))
		command(b, 0xF0)
		assert.Equal(t, uint8(0xFF), b.Read(0))

		big := NewBackup(BackupFlash128)
		command(big, 0x90)
		assert.Equal(t, uint8(0x62), big.Read(0))
		assert.Equal(t, uint8(0x13), big.Read(1))
	})

	t.Run("program byte", func(t *testing.T) {
		b := NewBackup(BackupFlash64)
		command(b, 0xA0)
		b.Write(0x1234, 0x5A)
		assert.Equal(t, uint8(0x5A), b.Read(0x1234))
	})

	t.Run("sector erase", func(t *testing.T) {
		b := NewBackup(BackupFlash64)
		command(b, 0xA0)
		b.Write(0x2000, 0x00)
		assert.Equal(t, uint8(0x00), b.Read(0x2000))

		command(b, 0x80)
		b.Write(0x5555, 0xAA)
		b.Write(0x2AAA, 0x55)
		b.Write(0x2000, 0x30)
		assert.Equal(t, uint8(0xFF), b.Read(0x2000))
	})

	t.Run("bank switch on 128K parts", func(t *testing.T) {
		b := NewBackup(BackupFlash128)
		command(b, 0xA0)
		b.Write(0x0100, 0x11)

		command(b, 0xB0)
		b.Write(0x0000, 0x01)
		assert.Equal(t, uint8(0xFF), b.Read(0x0100))

		command(b, 0xB0)
		b.Write(0x0000, 0x00)
		assert.Equal(t, uint8(0x11), b.Read(0x0100))
	})
}

func TestEEPROMBackup(t *testing.T) {
	writeBits := func(b *Backup, bits []uint8) {
		for _, v := range bits {
			b.Write(0x0D000000, v)
		}
	}
	addressBits := func(address int, width int) []uint8 {
		bits := make([]uint8, width)
		for i := range width {
			bits[i] = uint8(address>>(width-1-i)) & 1
		}
		return bits
	}

	t.Run("idle reads ready", func(t *testing.T) {
		b := NewBackup(BackupEEPROM8K)
		assert.Equal(t, uint8(1), b.Read(0x0D000000))
	})

	t.Run("write then read round trip", func(t *testing.T) {
		b := NewBackup(BackupEEPROM8K)
		value := uint64(0xDEADBEEF00C0FFEE)

		// Write request: "10", 14 address bits, 64 data bits, stop bit.
		writeBits(b, []uint8{1, 0})
		writeBits(b, addressBits(5, 14))
		for i := 63; i >= 0; i-- {
			b.Write(0x0D000000, uint8(value>>i)&1)
		}
		writeBits(b, []uint8{0})

		// Read request: "11", 14 address bits, stop bit.
		writeBits(b, []uint8{1, 1})
		writeBits(b, addressBits(5, 14))
		writeBits(b, []uint8{0})

		// 4 dummy bits, then the value MSB first.
		for range 4 {
			assert.Equal(t, uint8(0), b.Read(0x0D000000))
		}
		var got uint64
		for range 64 {
			got = got<<1 | uint64(b.Read(0x0D000000))
		}
		assert.Equal(t, value, got)
	})

	t.Run("short addresses on 512 byte parts", func(t *testing.T) {
		b := NewBackup(BackupEEPROM512)

		writeBits(b, []uint8{1, 0})
		writeBits(b, addressBits(3, 6))
		for range 64 {
			b.Write(0x0D000000, 1)
		}
		writeBits(b, []uint8{0})

		writeBits(b, []uint8{1, 1})
		writeBits(b, addressBits(3, 6))
		writeBits(b, []uint8{0})

		for range 4 {
			b.Read(0x0D000000)
		}
		for range 64 {
			assert.Equal(t, uint8(1), b.Read(0x0D000000))
		}
	})
}
