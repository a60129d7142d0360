package payment

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *CheckoutService {
	return NewCheckoutService(CheckoutConfig{
		MerchantLogin: "workhub",
		Password1:     "pass-one",
		Password2:     "pass-two",
	})
}

func TestPaymentURL(t *testing.T) {
	s := newTestService()

	raw, err := s.PaymentURL(42, decimal.NewFromFloat(4500.5), "Job payout")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth.robokassa.kz", parsed.Host)

	q := parsed.Query()
	assert.Equal(t, "workhub", q.Get("MrchLogin"))
	assert.Equal(t, "4500.50", q.Get("OutSum"))
	assert.Equal(t, "42", q.Get("InvId"))
	assert.Equal(t, "Job payout", q.Get("Desc"))
	assert.Equal(t, "KZT", q.Get("IncCurrLabel"))

	sum := md5.Sum([]byte("workhub:4500.50:42:pass-one"))
	want := strings.ToUpper(hex.EncodeToString(sum[:]))
	assert.Equal(t, want, q.Get("SignatureValue"))
}

func TestVerifyResultSignature(t *testing.T) {
	s := newTestService()

	sum := md5.Sum([]byte("4500.50:42:pass-two"))
	sig := hex.EncodeToString(sum[:])

	assert.True(t, s.VerifyResultSignature("4500.50", "42", sig))
	assert.True(t, s.VerifyResultSignature("4500.50", "42", strings.ToUpper(sig)))
	assert.False(t, s.VerifyResultSignature("4500.50", "42", "bogus"))
	assert.False(t, s.VerifyResultSignature("4500.51", "42", sig))
}

func TestCheckoutDefaults(t *testing.T) {
	s := NewCheckoutService(CheckoutConfig{MerchantLogin: "m"})
	assert.Equal(t, "https://auth.robokassa.kz/Merchant/Index.aspx", s.BaseURL)
	assert.Equal(t, "KZT", s.Currency)
}
