package memory

import (
	"bytes"
	"fmt"
	"log/slog"
)

// backupSignatures are the ID strings the SDK embeds in the ROM image,
// the standard heuristic for detecting the save memory type. Tags are
// probed in list order and the first one found in the image wins.
var backupSignatures = []struct {
	tag  string
	kind BackupKind
}{
	{"EEPROM_V", BackupEEPROM8K},
	{"SRAM_V", BackupSRAM},
	{"FLASH1M_V", BackupFlash128},
	{"FLASH512_V", BackupFlash64},
	{"FLASH_V", BackupFlash64},
}

// GamePak holds the cartridge ROM and its save memory. Size is the byte
// length of the image; Mask folds the 32 MiB ROM window onto it (small
// power-of-two images mirror, others read the open cart pattern past the
// end).
type GamePak struct {
	ROM    []byte
	Size   uint32
	Mask   uint32
	Backup *Backup
}

// NewGamePak wraps a ROM image, detecting the backup kind from the image
// itself. The image is padded to a word multiple so half and word reads
// near the end stay in bounds.
func NewGamePak(data []byte) *GamePak {
	size := uint32(len(data))

	rom := data
	if pad := (4 - len(data)%4) % 4; pad > 0 {
		rom = append(append([]byte{}, data...), make([]byte, pad)...)
	}

	p := &GamePak{
		ROM:  rom,
		Size: size,
		Mask: romMask(size),
	}

	kind := detectBackup(data)
	p.Backup = NewBackup(kind)
	if kind != BackupNone {
		slog.Info("detected cartridge backup", "kind", kind.String())
	}

	return p
}

// WithBackup overrides the detected backup kind.
func (p *GamePak) WithBackup(kind BackupKind) *GamePak {
	p.Backup = NewBackup(kind)
	return p
}

// Title returns the game title from the cartridge header.
func (p *GamePak) Title() string {
	if len(p.ROM) < 0xAC {
		return ""
	}
	title := p.ROM[0xA0:0xAC]
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}
	return string(title)
}

// IsEEPROMAddress implements the region 0x0D selection criterion: small
// carts respond anywhere in the upper 16 MiB half, 32 MiB carts only on
// the top 256 bytes.
func (p *GamePak) IsEEPROMAddress(address uint32) bool {
	if p.Backup == nil || !p.Backup.IsEEPROM() {
		return false
	}
	if p.Size <= 0x1000000 {
		return address&0x01000000 != 0
	}
	return address&0x01FFFF00 == 0x01FFFF00
}

func romMask(size uint32) uint32 {
	if size == 0 {
		return 0x01FFFFFF
	}
	mask := uint32(1)
	for mask < size {
		mask <<= 1
	}
	if mask == size {
		// Power-of-two images mirror across the full window.
		return mask - 1
	}
	return 0x01FFFFFF
}

func detectBackup(data []byte) BackupKind {
	for _, sig := range backupSignatures {
		if bytes.Contains(data, []byte(sig.tag)) {
			return sig.kind
		}
	}
	return BackupNone
}

func (p *GamePak) String() string {
	return fmt.Sprintf("%s (%d KiB, %s)", p.Title(), p.Size/1024, p.Backup.kindString())
}

func (b *Backup) kindString() string {
	if b == nil {
		return "no backup"
	}
	return b.Kind.String()
}
