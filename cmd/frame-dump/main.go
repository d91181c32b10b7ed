// Command frame-dump prints the on-wire bytes of a glasses command, or
// decodes a captured notification frame. It needs no Bluetooth hardware.
//
// Usage:
//
//	go run ./cmd/frame-dump [--short] [--query hex] [--mtu n] <opcode> [payload-hex]
//	go run ./cmd/frame-dump --decode <frame-hex>
//
// The opcode is a name such as "battery" or a hex value such as "0x05".
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chaz8081/engoctl/internal/ble/protocol"
)

func main() {
	short := flag.Bool("short", false, "use the legacy 1-byte length format")
	queryID := flag.String("query", "", "query id bytes, hex")
	mtu := flag.Int("mtu", 0, "also print the frame split into writes of this size")
	decode := flag.Bool("decode", false, "decode a frame instead of building one")
	flag.Parse()

	var err error
	if *decode {
		err = decodeFrame(flag.Args())
	} else {
		err = buildFrame(flag.Args(), *short, *queryID, *mtu)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildFrame(args []string, short bool, queryID string, mtu int) error {
	if len(args) == 0 {
		return fmt.Errorf("missing opcode")
	}
	op, ok := protocol.ParseOpcode(args[0])
	if !ok {
		return fmt.Errorf("unknown opcode %q", args[0])
	}

	cmd := protocol.Command{Opcode: op, LengthFormat: protocol.FormatLong}
	if short {
		cmd.LengthFormat = protocol.FormatShort
	}
	var err error
	if cmd.QueryID, err = parseHex(queryID); err != nil {
		return fmt.Errorf("query id: %w", err)
	}
	if cmd.Payload, err = parseHex(strings.Join(args[1:], "")); err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	frame, err := cmd.Frame()
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d bytes): % X\n", cmd, len(frame), frame)

	if mtu > 0 {
		for i, chunk := range protocol.ChunkFrame(frame, mtu) {
			fmt.Printf("  write %d: % X\n", i, chunk)
		}
	}
	return nil
}

func decodeFrame(args []string) error {
	raw, err := parseHex(strings.Join(args, ""))
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("missing frame")
	}

	rec, err := protocol.Decode(raw)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %+v\n", protocol.OpcodeName(rec.Opcode()), rec)
	return nil
}

// parseHex accepts "FF 05 10", "ff0510" and "FF:05:10".
func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(s)
	return hex.DecodeString(s)
}
