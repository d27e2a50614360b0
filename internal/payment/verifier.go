package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ykrishnateja01/job-portal/internal/chain"
	"github.com/ykrishnateja01/job-portal/internal/metrics"
)

// AmountPolicy controls how the observed transfer is compared to the tariff.
type AmountPolicy string

const (
	// AmountPolicyExact rejects both under- and overpayment.
	AmountPolicyExact AmountPolicy = "exact"
	// AmountPolicyAtLeast accepts any transfer >= the tariff amount.
	AmountPolicyAtLeast AmountPolicy = "at_least"
)

func ParseAmountPolicy(s string) (AmountPolicy, error) {
	if s == "" {
		return AmountPolicyExact, nil
	}
	p := AmountPolicy(s)
	switch p {
	case AmountPolicyExact, AmountPolicyAtLeast:
		return p, nil
	}
	return "", fmt.Errorf("unknown amount policy %q", s)
}

// Claim is a caller's assertion that a transaction funds a purpose on a chain.
// Everything in it is untrusted until verified against the oracle.
type Claim struct {
	TransactionHash string
	Chain           chain.Chain
	Purpose         Purpose
}

// VerifiedPayment carries the chain-observed facts about an accepted claim.
// Amount and Currency come from the tariff, never from the caller.
type VerifiedPayment struct {
	Sender      string
	Amount      decimal.Decimal
	Currency    string
	BlockNumber uint64
	GasUsed     uint64
	GasFee      decimal.Decimal
}

// Verifier decides whether a claimed transaction satisfies the tariff for its
// (chain, purpose). It mutates no state; the only side effect is the oracle
// read, which makes it unit-testable with a stub oracle.
type Verifier struct {
	oracles map[chain.Chain]chain.Oracle
	tariffs *TariffTable
	policy  AmountPolicy
	logger  *slog.Logger
	metrics metrics.Recorder
}

func NewVerifier(oracles map[chain.Chain]chain.Oracle, tariffs *TariffTable, policy AmountPolicy, logger *slog.Logger, recorder metrics.Recorder) *Verifier {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Verifier{
		oracles: oracles,
		tariffs: tariffs,
		policy:  policy,
		logger:  logger,
		metrics: recorder,
	}
}

// Verify runs the full decision sequence: tariff lookup, oracle fetch,
// confirmation, recipient, amount. On rejection one of the sentinel errors in
// errors.go is returned; chain.ErrUnavailable propagates unchanged so the
// caller can distinguish a retryable outage from a rejection.
func (v *Verifier) Verify(ctx context.Context, claim Claim) (*VerifiedPayment, error) {
	labels := map[string]string{"chain": string(claim.Chain)}

	tariff, ok := v.tariffs.Lookup(claim.Chain, claim.Purpose)
	if !ok {
		return nil, fmt.Errorf("%w: (%s, %s)", ErrUnknownTariff, claim.Chain, claim.Purpose)
	}

	oracle, ok := v.oracles[claim.Chain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, claim.Chain)
	}

	start := time.Now()
	obs, err := oracle.FetchTransaction(ctx, claim.TransactionHash)
	v.metrics.ObserveLatency("oracle_fetch", time.Since(start), labels)

	if err != nil {
		if errors.Is(err, chain.ErrTxNotFound) {
			v.reject(claim, "transaction_not_found")
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, claim.TransactionHash)
		}
		v.metrics.IncCounter("oracle_unavailable", labels)
		return nil, err
	}

	if !obs.Confirmed {
		v.reject(claim, "not_confirmed")
		return nil, fmt.Errorf("%w: %s", ErrNotConfirmed, claim.TransactionHash)
	}

	// Address comparison is case-insensitive: EVM addresses are hex with an
	// optional checksum casing.
	if !strings.EqualFold(obs.Recipient, tariff.Recipient) {
		v.reject(claim, "wrong_recipient")
		return nil, fmt.Errorf("%w: got %s", ErrWrongRecipient, obs.Recipient)
	}

	if !v.amountSatisfies(obs.Amount, tariff.Amount) {
		v.reject(claim, "amount_mismatch")
		return nil, fmt.Errorf("%w: got %s, required %s", ErrAmountMismatch, obs.Amount, tariff.Amount)
	}

	v.metrics.IncCounter("verification_accepted", labels)
	v.logger.Info("Payment claim verified",
		slog.String("chain", string(claim.Chain)),
		slog.String("transaction_hash", claim.TransactionHash),
		slog.String("sender", obs.Sender),
		slog.Uint64("block_number", obs.BlockNumber),
	)

	return &VerifiedPayment{
		Sender:      obs.Sender,
		Amount:      tariff.Amount,
		Currency:    tariff.Currency,
		BlockNumber: obs.BlockNumber,
		GasUsed:     obs.GasUsed,
		GasFee:      obs.GasFee,
	}, nil
}

func (v *Verifier) amountSatisfies(observed, required decimal.Decimal) bool {
	if v.policy == AmountPolicyAtLeast {
		return observed.GreaterThanOrEqual(required)
	}
	return observed.Equal(required)
}

func (v *Verifier) reject(claim Claim, reason string) {
	v.metrics.IncCounter("verification_rejected", map[string]string{"chain": string(claim.Chain)})
	v.logger.Warn("Payment claim rejected",
		slog.String("chain", string(claim.Chain)),
		slog.String("transaction_hash", claim.TransactionHash),
		slog.String("reason", reason),
	)
}
