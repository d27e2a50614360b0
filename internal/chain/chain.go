// Package chain provides read-only oracle clients for the supported
// blockchains. An Oracle answers exactly one question: what does the ledger
// say about this transaction hash? It never signs, broadcasts, or mutates
// anything.
package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Chain identifies a supported blockchain.
type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainPolygon  Chain = "polygon"
	ChainSolana   Chain = "solana"
)

// Parse converts a raw string to a Chain, returning an error for unknown
// values.
func Parse(s string) (Chain, error) {
	c := Chain(s)
	switch c {
	case ChainEthereum, ChainPolygon, ChainSolana:
		return c, nil
	}
	return "", fmt.Errorf("unsupported blockchain %q", s)
}

var (
	// ErrTxNotFound means the chain has no record of the transaction.
	ErrTxNotFound = errors.New("transaction not found on chain")

	// ErrUnavailable means the oracle could not be reached or timed out.
	// Callers must never treat this as "transaction does not exist".
	ErrUnavailable = errors.New("chain oracle unavailable")
)

// ObservedTransaction is the normalized view of a transaction as reported by
// the chain, independent of chain family. Amounts are in the chain's smallest
// unit (wei, lamports).
type ObservedTransaction struct {
	Confirmed   bool
	Sender      string
	Recipient   string
	Amount      decimal.Decimal
	BlockNumber uint64
	GasUsed     uint64
	GasFee      decimal.Decimal
}

// Oracle fetches transactions from one chain. Implementations wrap a single
// RPC endpoint and bound every call with a timeout.
type Oracle interface {
	// FetchTransaction returns the observed state of the transaction, or
	// ErrTxNotFound / ErrUnavailable. A transaction that exists but is not
	// yet mined, or whose receipt reports failure, is returned with
	// Confirmed=false rather than as an error.
	FetchTransaction(ctx context.Context, txHash string) (*ObservedTransaction, error)

	Chain() Chain
	Close()
}

// unavailable wraps transport-level failures so callers can distinguish
// "couldn't check" from "doesn't exist".
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
