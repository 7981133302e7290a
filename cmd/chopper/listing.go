package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mnafees/chopper/v2/internal"
)

// listFile prints the disassembly of the program at path
func listFile(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", path, err)
	}
	return writeListing(w, data)
}

func writeListing(w io.Writer, rom []byte) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, line := range internal.Disassemble(rom) {
		code := fmt.Sprintf("%04X", line.Ins.Word)
		if line.Size == 1 {
			code = fmt.Sprintf("%02X", line.Ins.Word)
		}
		if _, err := fmt.Fprintf(tw, "$%03X\t%s\t%s\n", line.Addr, code, line); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}
