// Package log provides logging functionality with optional masking of
// address values, built on top of the standard slog package.
//
// Airdrop recipient lists are frequently confidential before a distribution
// is announced. Debug logging in the similarity and clustering stages tags
// log records with the addresses being compared, so sharing a verbose log
// would otherwise leak the list. The MaskHandler abbreviates anything that
// looks like an EVM address to its first and last four hex digits before the
// record reaches the underlying handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, true) // mask=true
//	logger.Debug("scoring pair",
//	    "a", "0x00000000219ab540356cbb839cbe05303d7705fa", // logged as 0x0000…05fa
//	    "b", "0x00000000219ab540356cbb839cbe05303d7705fb",
//	)
package log
