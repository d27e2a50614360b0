package chain

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
)

// recipientAccountIndex is the account position whose balance delta carries
// the transferred amount in a simple system-program transfer: index 0 is the
// fee-paying sender, index 1 the recipient.
const recipientAccountIndex = 1

var _ Oracle = (*SolanaOracle)(nil)

// SolanaOracle reads transactions from an instruction/balance-delta-model
// chain. The transferred amount is derived from the recipient account's
// pre/post balance difference rather than a value field.
type SolanaOracle struct {
	chain   Chain
	rpcURL  string
	client  *rpc.Client
	timeout time.Duration
}

func NewSolanaOracle(rpcURL string, timeout time.Duration) *SolanaOracle {
	return &SolanaOracle{
		chain:   ChainSolana,
		rpcURL:  rpcURL,
		client:  rpc.New(rpcURL),
		timeout: timeout,
	}
}

func (o *SolanaOracle) Chain() Chain { return o.chain }

func (o *SolanaOracle) Close() {}

func (o *SolanaOracle) FetchTransaction(ctx context.Context, txHash string) (*ObservedTransaction, error) {
	sig, err := solana.SignatureFromBase58(txHash)
	if err != nil {
		// A malformed signature can never exist on chain.
		return nil, ErrTxNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	maxVersion := uint64(0)
	out, err := o.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentFinalized,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrTxNotFound
		}
		return nil, unavailable(err)
	}
	if out == nil || out.Meta == nil {
		return nil, ErrTxNotFound
	}

	obs := &ObservedTransaction{
		Confirmed:   out.Meta.Err == nil,
		BlockNumber: out.Slot,
		GasFee:      decimal.NewFromUint64(out.Meta.Fee),
	}

	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, unavailable(err)
	}

	keys := tx.Message.AccountKeys
	if len(keys) > 0 {
		obs.Sender = keys[0].String()
	}
	if len(keys) > recipientAccountIndex &&
		len(out.Meta.PreBalances) > recipientAccountIndex &&
		len(out.Meta.PostBalances) > recipientAccountIndex {
		obs.Recipient = keys[recipientAccountIndex].String()
		delta := int64(out.Meta.PostBalances[recipientAccountIndex]) - int64(out.Meta.PreBalances[recipientAccountIndex])
		obs.Amount = decimal.NewFromInt(delta)
	}

	return obs, nil
}
