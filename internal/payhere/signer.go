package payhere

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMerchantConfigMissing is a server-side configuration fault: the signer
// refuses to hash with an empty merchant id or secret.
var ErrMerchantConfigMissing = errors.New("payhere merchant credentials not configured")

// Signer derives the tamper-evident hash PayHere requires before a checkout
// redirect, and checks the md5sig on the gateway's server-to-server notify.
//
// The two-stage uppercase MD5 scheme is fixed by the gateway protocol; it is
// an integrity binding against a shared secret, not a password store, and
// must not be swapped for another digest without reconfiguring the gateway.
type Signer struct {
	merchantID     string
	merchantSecret string
}

func NewSigner(merchantID, merchantSecret string) *Signer {
	return &Signer{
		merchantID:     merchantID,
		merchantSecret: merchantSecret,
	}
}

// GenerateHash binds an order id, its amount and currency to the merchant
// secret. The amount is canonicalized to exactly two decimals so the client
// and the gateway hash identical bytes.
func (s *Signer) GenerateHash(orderID string, amount float64, currency string) (hash, merchantID string, err error) {
	if s.merchantID == "" || s.merchantSecret == "" {
		return "", "", ErrMerchantConfigMissing
	}

	formatted := decimal.NewFromFloat(amount).StringFixed(2)
	hash = md5Upper(s.merchantID + orderID + formatted + currency + s.secretDigest())

	return hash, s.merchantID, nil
}

// Notification is the form-encoded payload PayHere posts to the notify URL.
// Amount and status code stay strings: the signature covers the gateway's
// exact bytes, not our parse of them.
type Notification struct {
	MerchantID string
	OrderID    string
	PaymentID  string
	Amount     string
	Currency   string
	StatusCode string
	Md5Sig     string
}

// StatusCode values PayHere reports on notify.
const (
	StatusSuccess    = "2"
	StatusPending    = "0"
	StatusCanceled   = "-1"
	StatusFailed     = "-2"
	StatusChargedBck = "-3"
)

// VerifyNotification recomputes the notify signature locally and compares
// it to the gateway's md5sig. A mismatched merchant id fails outright.
func (s *Signer) VerifyNotification(n Notification) (bool, error) {
	if s.merchantID == "" || s.merchantSecret == "" {
		return false, ErrMerchantConfigMissing
	}
	if n.MerchantID != s.merchantID {
		return false, nil
	}

	local := md5Upper(
		n.MerchantID + n.OrderID + n.Amount + n.Currency + n.StatusCode + s.secretDigest(),
	)

	return local == strings.ToUpper(n.Md5Sig), nil
}

func (s *Signer) secretDigest() string {
	return md5Upper(s.merchantSecret)
}

func md5Upper(input string) string {
	sum := md5.Sum([]byte(input))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
