// Package ines reads cartridge images in the iNES file format, the common
// distribution format of NES programs.
package ines

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/go-faster/errors"
)

const (
	PRGBankSize = 0x4000 // 16KB
	CHRBankSize = 0x2000 // 8KB
	TrainerSize = 512
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG ROM data (length is a multiple of 16KB)
	CHR     []byte // CHR ROM data (length is a multiple of 8KB)
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, errors.Wrap(err, "failed to decode header")
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+TrainerSize {
			return 0, errors.New("incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+TrainerSize]
		off += TrainerSize
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, errors.New("incomplete PRG section")
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, errors.New("incomplete CHR section")
	}
	rom.CHR = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

// PrintInfos writes a human readable summary of the rom header.
func (rom *Rom) PrintInfos(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	format := "NES 1.0"
	if rom.IsNES20() {
		format = "NES 2.0"
	}
	fmt.Fprintf(tw, "Format\t%s\n", format)
	fmt.Fprintf(tw, "Mapper\t%d\n", rom.Mapper())
	fmt.Fprintf(tw, "PRG ROM\t%d x 16KB\n", len(rom.PRG)/PRGBankSize)
	fmt.Fprintf(tw, "CHR ROM\t%d x 8KB\n", len(rom.CHR)/CHRBankSize)
	fmt.Fprintf(tw, "Trainer\t%t\n", rom.HasTrainer())
	fmt.Fprintf(tw, "Battery\t%t\n", rom.HasPersistent())
	fmt.Fprintf(tw, "Mirroring\t%s\n", rom.Mirroring())
	return tw.Flush()
}

const Magic = "NES\x1a"

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return errors.New("too small, needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return errors.New("invalid magic number")
	}
	copy(hdr.raw[:], p[:16])

	hdr.prgsz = int(hdr.raw[4]) * PRGBankSize
	hdr.chrsz = int(hdr.raw[5]) * CHRBankSize
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// IsNES20 reports whether the header uses the NES 2.0 extensions.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// Mapper returns the mapper number, made of the upper nibbles of flags 6
// and 7. Flags 7 is ignored in old headers with garbage in bytes 12-15.
func (hdr *header) Mapper() uint8 {
	lo := hdr.raw[6] >> 4
	if !hdr.IsNES20() && string(hdr.raw[12:16]) != "\x00\x00\x00\x00" {
		return lo
	}
	return hdr.raw[7]&0xF0 | lo
}

func (hdr *header) Mirroring() string {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return "four-screen"
	case hdr.raw[6]&0x01 != 0:
		return "vertical"
	}
	return "horizontal"
}
