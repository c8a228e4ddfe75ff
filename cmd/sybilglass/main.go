// Package main provides the entry point for the sybilglass CLI.
//
// Sybilglass is an offline forensic analyzer for EVM address lists.
// It flags likely sybil farming in airdrop recipient lists by finding
// near-duplicate addresses, vanity-generated addresses, and clusters of
// both.
//
// Usage:
//
//	sybilglass analyze wave1.txt
//	sybilglass analyze --json recipients.csv
//
// See --help for all available options.
package main

// main is the entry point for sybilglass.
func main() {
	Execute()
}
