package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

var _ Oracle = (*EVMOracle)(nil)

// EVMOracle reads transactions from an account/receipt-model chain (Ethereum,
// Polygon) over JSON-RPC.
type EVMOracle struct {
	chain   Chain
	rpcURL  string
	client  *ethclient.Client
	timeout time.Duration
}

// NewEVMOracle dials the RPC endpoint. Dialing is lazy for HTTP transports,
// so this does not verify connectivity.
func NewEVMOracle(chain Chain, rpcURL string, timeout time.Duration) (*EVMOracle, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s RPC: %w", chain, err)
	}

	return &EVMOracle{
		chain:   chain,
		rpcURL:  rpcURL,
		client:  client,
		timeout: timeout,
	}, nil
}

func (o *EVMOracle) Chain() Chain { return o.chain }

func (o *EVMOracle) Close() { o.client.Close() }

// FetchTransaction looks up the transaction and its receipt. A pending
// transaction or a receipt with failure status comes back Confirmed=false.
func (o *EVMOracle) FetchTransaction(ctx context.Context, txHash string) (*ObservedTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	hash := common.HexToHash(txHash)

	tx, isPending, err := o.client.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, ErrTxNotFound
		}
		return nil, unavailable(err)
	}

	obs := &ObservedTransaction{
		Amount: decimal.NewFromBigInt(tx.Value(), 0),
	}
	if to := tx.To(); to != nil {
		obs.Recipient = to.Hex()
	}

	if isPending {
		return obs, nil
	}

	receipt, err := o.client.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			// Known to the mempool but not yet mined.
			return obs, nil
		}
		return nil, unavailable(err)
	}

	obs.Confirmed = receipt.Status == types.ReceiptStatusSuccessful
	obs.BlockNumber = receipt.BlockNumber.Uint64()
	obs.GasUsed = receipt.GasUsed
	if receipt.EffectiveGasPrice != nil {
		fee := decimal.NewFromBigInt(receipt.EffectiveGasPrice, 0)
		obs.GasFee = fee.Mul(decimal.NewFromUint64(receipt.GasUsed))
	}

	sender, err := o.client.TransactionSender(ctx, tx, receipt.BlockHash, receipt.TransactionIndex)
	if err != nil {
		return nil, unavailable(err)
	}
	obs.Sender = sender.Hex()

	return obs, nil
}
