// zcash-keys CLI - Zcash address and key derivation tool
//
// This CLI demonstrates the zcash-keys library's capabilities for
// decoding Zcash addresses, deriving per-pool account keys from a
// mnemonic, and inspecting ZIP 321 payment requests.
//
// Example usage:
//   # Decode any Zcash address
//   zcash-keys decode "u1..."
//
//   # Derive an account's keys from a mnemonic
//   zcash-keys derive --mnemonic "abandon ... art" --network testnet --account 0
//
//   # Parse a ZIP 321 payment request
//   zcash-keys parse-uri "zcash:addr?amount=1.5"
//
//   # Interpret a hex-encoded 512-byte memo field
//   zcash-keys memo <hex>
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/suffix-labs/zcash-keys/pkg/address"
	"github.com/suffix-labs/zcash-keys/pkg/api"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "decode":
		cmdDecode()
	case "derive":
		cmdDerive()
	case "parse-uri":
		cmdParseURI()
	case "memo":
		cmdMemo()
	case "version":
		cmdVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`zcash-keys - Zcash address and key derivation tool

Usage:
  zcash-keys <command> [options]

Commands:
  decode <address>             Decode a Zcash address of any kind
  derive [options]             Derive account keys from a mnemonic
  parse-uri <uri>              Parse a ZIP 321 payment request URI
  memo <hex>                   Interpret a hex-encoded memo field
  version                      Show version information
  help                         Show this help message

Derive options:
  --mnemonic <phrase>          BIP 39 mnemonic (required)
  --passphrase <text>          Optional BIP 39 passphrase
  --network mainnet|testnet    Network (default mainnet)
  --account <n>                Account index (default 0)

Examples:
  zcash-keys decode "t1abc..."
  zcash-keys derive --mnemonic "abandon ... art" --account 0
  zcash-keys parse-uri "zcash:u1...?amount=1.5"

For more information, see: https://github.com/suffix-labs/zcash-keys`)
}

func cmdVersion() {
	fmt.Println("zcash-keys v0.1.0")
	fmt.Println("Address and key encoding library for Zcash")
	fmt.Println("Based on ZIP 32, ZIP 316, ZIP 321 and librustzcash")
}

func cmdDecode() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Error: address argument required")
		fmt.Fprintln(os.Stderr, "Usage: zcash-keys decode <address>")
		os.Exit(1)
	}

	addr, err := api.ParseAddress(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode address: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Network: %s\n", addr.Network())
	switch a := addr.(type) {
	case *address.TransparentAddress:
		kind := "P2PKH"
		if a.Kind() == address.P2SH {
			kind = "P2SH"
		}
		fmt.Printf("Kind:    transparent (%s)\n", kind)
		fmt.Printf("Hash:    %x\n", a.Hash())
	case *address.SproutAddress:
		fmt.Println("Kind:    sprout (legacy)")
	case *address.SaplingAddress:
		fmt.Println("Kind:    sapling")
		fmt.Printf("Diversifier: %x\n", a.Diversifier())
	case *address.OrchardAddress:
		fmt.Println("Kind:    orchard")
		fmt.Printf("Diversifier: %x\n", a.Diversifier())
	case *address.UnifiedAddress:
		fmt.Println("Kind:    unified")
		for _, elem := range a.Elements() {
			fmt.Printf("  receiver type 0x%02x, %d bytes\n", elem.TypeCode(), elem.DataLen())
		}
	}
}

// deriveFlags holds the parsed derive command options.
type deriveFlags struct {
	mnemonic   string
	passphrase string
	network    address.Network
	account    uint32
}

func parseDeriveFlags(args []string) (deriveFlags, error) {
	flags := deriveFlags{network: address.Mainnet}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--mnemonic":
			if i+1 >= len(args) {
				return flags, fmt.Errorf("--mnemonic requires a value")
			}
			i++
			flags.mnemonic = args[i]
		case "--passphrase":
			if i+1 >= len(args) {
				return flags, fmt.Errorf("--passphrase requires a value")
			}
			i++
			flags.passphrase = args[i]
		case "--network":
			if i+1 >= len(args) {
				return flags, fmt.Errorf("--network requires a value")
			}
			i++
			switch args[i] {
			case "mainnet":
				flags.network = address.Mainnet
			case "testnet":
				flags.network = address.Testnet
			default:
				return flags, fmt.Errorf("unknown network %q", args[i])
			}
		case "--account":
			if i+1 >= len(args) {
				return flags, fmt.Errorf("--account requires a value")
			}
			i++
			var n uint32
			if _, err := fmt.Sscanf(args[i], "%d", &n); err != nil {
				return flags, fmt.Errorf("invalid account index %q", args[i])
			}
			flags.account = n
		default:
			return flags, fmt.Errorf("unknown option %q", args[i])
		}
	}
	if flags.mnemonic == "" {
		return flags, fmt.Errorf("--mnemonic is required")
	}
	return flags, nil
}

func cmdDerive() {
	flags, err := parseDeriveFlags(os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: zcash-keys derive --mnemonic <phrase> [--network mainnet|testnet] [--account <n>]")
		os.Exit(1)
	}

	acct, err := api.NewAccount(flags.mnemonic, flags.passphrase, flags.network, flags.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Derivation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Account %d (%s)\n\n", acct.Index, acct.Network)

	fmt.Printf("Orchard spending key:\n  %s\n\n", acct.Orchard.String())
	fmt.Printf("Sapling extended spending key:\n  %s\n\n", acct.Sapling.String())
	if fvk, err := acct.Sapling.FullViewingKey(); err == nil {
		fmt.Printf("Sapling extended full viewing key:\n  %s\n\n", fvk.String())
	}
	fmt.Printf("Transparent extended key:\n  %s\n\n", acct.Transparent.String())

	if ua, err := acct.UnifiedAddress(); err == nil {
		fmt.Printf("Unified address:\n  %s\n\n", ua.String())
	}
	if ufvk, err := acct.UnifiedFullViewingKey(); err == nil {
		fmt.Printf("Unified full viewing key:\n  %s\n\n", ufvk)
	}
	if uivk, err := acct.UnifiedIncomingViewingKey(); err == nil {
		fmt.Printf("Unified incoming viewing key:\n  %s\n\n", uivk)
	}
	if ta, err := acct.TransparentAddress(0); err == nil {
		fmt.Printf("Transparent address (index 0):\n  %s\n", ta.String())
	}
}

func cmdParseURI() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Error: URI argument required")
		fmt.Fprintln(os.Stderr, "Usage: zcash-keys parse-uri <uri>")
		os.Exit(1)
	}

	req, err := api.ParsePaymentRequest(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse URI: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Payment Request:")
	fmt.Printf("  Payments: %d\n\n", len(req.Payments))

	for i, payment := range req.Payments {
		fmt.Printf("Payment %d:\n", i+1)
		fmt.Printf("  Address: %s\n", payment.Address.String())

		if payment.Amount != nil {
			fmt.Printf("  Amount:  %.8f ZEC\n", *payment.Amount)
		} else {
			fmt.Println("  Amount:  (user specified)")
		}
		if payment.Memo != nil {
			switch payment.Memo.Kind {
			case address.MemoText:
				fmt.Printf("  Memo:    %s\n", payment.Memo.Text)
			default:
				fmt.Printf("  Memo:    (%s)\n", payment.Memo.Kind)
			}
		}
		if payment.Label != nil {
			fmt.Printf("  Label:   %s\n", *payment.Label)
		}
		if payment.Message != nil {
			fmt.Printf("  Message: %s\n", *payment.Message)
		}
		fmt.Println()
	}
}

func cmdMemo() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Error: hex argument required")
		fmt.Fprintln(os.Stderr, "Usage: zcash-keys memo <hex>")
		os.Exit(1)
	}

	raw, err := hex.DecodeString(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid hex: %v\n", err)
		os.Exit(1)
	}
	if len(raw) > address.MemoSize {
		fmt.Fprintf(os.Stderr, "Memo field exceeds %d bytes\n", address.MemoSize)
		os.Exit(1)
	}

	var field [address.MemoSize]byte
	copy(field[:], raw)
	memo, err := address.DecodeMemo(field)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid memo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Kind: %s\n", memo.Kind)
	switch memo.Kind {
	case address.MemoText:
		fmt.Printf("Text: %s\n", memo.Text)
	case address.MemoArbitrary:
		fmt.Printf("Data: %x\n", memo.Data)
	}
}
