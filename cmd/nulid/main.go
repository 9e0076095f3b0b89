// Command nulid mints nanosecond-ordered, sortable identifiers.
//
// It wraps the generator package with a small CLI offering four
// subcommands:
//
//	gen     mints identifiers and prints them to stdout.
//	serve   runs a long-lived process that mints identifiers on a fixed
//	        cadence and monitors clock drift.
//	attest  signs or verifies the canonical bytes of an identifier against
//	        a node's key, so a verifier can confirm which node minted it.
//	check   queries GitHub for a newer release of this tool.
//
// Configuration for gen, serve, and check is resolved from (in order of
// increasing precedence) built-in defaults, an optional config file, the
// environment (variables prefixed NULID_), and command-line flags. attest
// takes its inputs from command-line flags only.
package main

import (
	"fmt"
	"os"
)

// Version is the released version of this tool, used by the check
// subcommand to detect available updates.
const Version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var (
		cmd  = os.Args[1]
		args = os.Args[2:]
		err  error
	)

	switch cmd {
	case "gen":
		err = runGen(args)
	case "serve":
		err = runServe(args)
	case "attest":
		err = runAttest(args)
	case "check":
		err = runCheck(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "nulid: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "nulid: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: nulid <command> [flags]

Commands:
  gen     mint identifiers and print them to stdout
  serve   run a long-lived minting service with drift monitoring
  attest  sign or verify an identifier's canonical bytes (sign|verify)
  check   check for a newer release on GitHub

Run "nulid <command> -h" for flags specific to a command.`)
}
