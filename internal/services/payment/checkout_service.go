package payment

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// CheckoutService генерирует подписанные redirect-ссылки на оплату.
// Ядро не сверяет завершение платежа — провайдер отвечает сам.
type CheckoutService struct {
	MerchantLogin string
	Password1     string
	Password2     string
	BaseURL       string
	Currency      string
}

type CheckoutConfig struct {
	MerchantLogin string
	Password1     string
	Password2     string
	BaseURL       string
	Currency      string
}

func NewCheckoutService(cfg CheckoutConfig) *CheckoutService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://auth.robokassa.kz/Merchant/Index.aspx"
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "KZT"
	}
	return &CheckoutService{
		MerchantLogin: cfg.MerchantLogin,
		Password1:     cfg.Password1,
		Password2:     cfg.Password2,
		BaseURL:       baseURL,
		Currency:      currency,
	}
}

// PaymentURL создает ссылку на оплату выплаты
func (s *CheckoutService) PaymentURL(payoutID uint, amount decimal.Decimal, description string) (string, error) {
	invoice := fmt.Sprintf("%d", payoutID)
	outSum := amount.StringFixed(2)
	signature := s.signature(invoice, outSum)

	params := url.Values{}
	params.Set("MrchLogin", s.MerchantLogin)
	params.Set("OutSum", outSum)
	params.Set("InvId", invoice)
	params.Set("Desc", description)
	params.Set("SignatureValue", signature)
	params.Set("IncCurrLabel", s.Currency)

	return fmt.Sprintf("%s?%s", s.BaseURL, params.Encode()), nil
}

// signature формирует MD5-подпись платежной ссылки
func (s *CheckoutService) signature(invoice, outSum string) string {
	plain := fmt.Sprintf("%s:%s:%s:%s", s.MerchantLogin, outSum, invoice, s.Password1)
	hash := md5.Sum([]byte(plain))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

// VerifyResultSignature проверяет подпись callback'а провайдера
func (s *CheckoutService) VerifyResultSignature(outSum, invoice, receivedSig string) bool {
	plain := fmt.Sprintf("%s:%s:%s", outSum, invoice, s.Password2)
	hash := md5.Sum([]byte(plain))
	expected := strings.ToUpper(hex.EncodeToString(hash[:]))
	return strings.EqualFold(expected, receivedSig)
}
