package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
	"github.com/ykrishnateja01/job-portal/internal/chain"
	"github.com/ykrishnateja01/job-portal/internal/payment"
)

type stubLedger struct {
	exists    bool
	recordErr error
	recorded  *model.Payment
}

func (s *stubLedger) Exists(ctx context.Context, transactionHash string) (bool, error) {
	return s.exists, nil
}

func (s *stubLedger) RecordAndActivate(ctx context.Context, p *model.Payment) error {
	s.recorded = p
	return s.recordErr
}

func (s *stubLedger) GetByHashForUser(ctx context.Context, transactionHash, userID string) (*model.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}

func (s *stubLedger) ListByUser(ctx context.Context, userID string) ([]model.Payment, error) {
	return nil, nil
}

type stubOracle struct {
	obs     *chain.ObservedTransaction
	fetches int
}

func (s *stubOracle) FetchTransaction(ctx context.Context, txHash string) (*chain.ObservedTransaction, error) {
	s.fetches++
	return s.obs, nil
}

func (s *stubOracle) Chain() chain.Chain { return chain.ChainEthereum }

func (s *stubOracle) Close() {}

func newPaymentTestHandler(t *testing.T, ledger *stubLedger, oracle *stubOracle) *PaymentHandler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tariffs, err := payment.NewTariffTable([]payment.TariffSpec{{
		Chain:     "ethereum",
		Purpose:   "job_posting",
		Recipient: "0xReceiver",
		Amount:    "1000",
		Currency:  "ETH",
	}})
	require.NoError(t, err)

	verifier := payment.NewVerifier(
		map[chain.Chain]chain.Oracle{chain.ChainEthereum: oracle},
		tariffs,
		payment.AmountPolicyExact,
		logger,
		nil,
	)

	return &PaymentHandler{
		logger:        logger,
		payments:      ledger,
		verifier:      verifier,
		verifyTimeout: time.Second,
	}
}

func verifyPaymentRequest(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(ContextUserKey, &model.User{UserID: "user-1", Role: domain.RoleEmployer})

	return w, c
}

func confirmedTransfer() *chain.ObservedTransaction {
	return &chain.ObservedTransaction{
		Confirmed:   true,
		Sender:      "0xSender",
		Recipient:   "0xRECEIVER",
		Amount:      decimal.NewFromInt(1000),
		BlockNumber: 42,
	}
}

func TestVerifyPayment_DuplicateHashShortCircuits(t *testing.T) {
	ledger := &stubLedger{exists: true}
	oracle := &stubOracle{obs: confirmedTransfer()}
	h := newPaymentTestHandler(t, ledger, oracle)

	w, c := verifyPaymentRequest(t, `{"transaction_hash":"0xdead","blockchain":"ethereum"}`)
	h.VerifyPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "transaction already processed")
	assert.Zero(t, oracle.fetches, "known hash must not trigger an oracle round trip")
	assert.Nil(t, ledger.recorded)
}

func TestVerifyPayment_RacingInsertReportsDuplicate(t *testing.T) {
	// The existence check races a concurrent submission of the same hash; the
	// unique constraint on the ledger insert decides, and the loser gets the
	// same duplicate response.
	ledger := &stubLedger{exists: false, recordErr: domain.ErrPaymentAlreadyProcessed}
	oracle := &stubOracle{obs: confirmedTransfer()}
	h := newPaymentTestHandler(t, ledger, oracle)

	w, c := verifyPaymentRequest(t, `{"transaction_hash":"0xdead","blockchain":"ethereum"}`)
	h.VerifyPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "transaction already processed")
	assert.Equal(t, 1, oracle.fetches)
}

func TestVerifyPayment_RecordsVerifiedTransfer(t *testing.T) {
	ledger := &stubLedger{}
	oracle := &stubOracle{obs: confirmedTransfer()}
	h := newPaymentTestHandler(t, ledger, oracle)

	w, c := verifyPaymentRequest(t, `{"transaction_hash":"0xbeef","blockchain":"ethereum"}`)
	h.VerifyPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, ledger.recorded)
	assert.Equal(t, "0xbeef", ledger.recorded.TransactionHash)
	assert.Equal(t, domain.PaymentStatusConfirmed, ledger.recorded.Status)
	assert.True(t, decimal.NewFromInt(1000).Equal(ledger.recorded.Amount))
	assert.Equal(t, "0xSender", ledger.recorded.WalletAddress)
}
