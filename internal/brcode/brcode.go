// Package brcode renders static PIX BR Codes in the EMV-MPM (Merchant
// Presented Mode) text format defined by the Brazilian Central Bank.
// Encoding is a pure computation: identical payloads always produce
// byte-identical output, including the CRC16 suffix.
package brcode

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Field length ceilings. Merchant name, city and description are truncated to
// fit; the key and transaction id are bounded by the two-digit TLV length
// field and the PIX key registry rules.
const (
	MaxMerchantNameLength = 25
	MaxMerchantCityLength = 15
	MaxDescriptionLength  = 25
	MaxTxIDLength         = 35
	MaxKeyLength          = 77
)

// Validation errors returned by Encode
var (
	ErrMissingKey          = errors.New("pix key is required")
	ErrKeyTooLong          = errors.New("pix key exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrMissingMerchantName = errors.New("merchant name is required")
	ErrMissingMerchantCity = errors.New("merchant city is required")
	ErrMissingTxID         = errors.New("transaction id is required")
)

// EMV-MPM element ids and fixed values used by static PIX payloads
const (
	idPayloadFormat        = "00"
	idMerchantAccount      = "26"
	idMerchantCategoryCode = "52"
	idCurrency             = "53"
	idAmount               = "54"
	idCountryCode          = "58"
	idMerchantName         = "59"
	idMerchantCity         = "60"
	idAdditionalData       = "62"
	idCRC                  = "63"

	subIDGUI         = "00"
	subIDKey         = "01"
	subIDDescription = "02"
	subIDTxID        = "05"

	payloadFormatValue = "01"
	pixGUI             = "br.gov.bcb.pix"
	merchantCategory   = "0000"
	currencyBRL        = "986"
	countryBR          = "BR"
)

// Payload holds the charge fields rendered into a BR Code.
// Amounts are in centavos (minor units), matching how money is stored
// throughout the service.
type Payload struct {
	Key          string
	MerchantName string
	MerchantCity string
	AmountCents  int64
	TxID         string
	Description  string
}

// Encode renders the payload as a spec-compliant BR Code string ("copia e
// cola" code). Required fields that are missing or empty after normalization
// yield a validation error; oversized display fields are truncated, never
// rejected.
func (p Payload) Encode() (string, error) {
	key := NormalizeKey(p.Key)
	if key == "" {
		return "", ErrMissingKey
	}
	if len(key) > MaxKeyLength {
		return "", ErrKeyTooLong
	}
	if p.AmountCents <= 0 {
		return "", ErrInvalidAmount
	}

	name := truncate(strings.TrimSpace(p.MerchantName), MaxMerchantNameLength)
	if name == "" {
		return "", ErrMissingMerchantName
	}
	city := truncate(strings.TrimSpace(p.MerchantCity), MaxMerchantCityLength)
	if city == "" {
		return "", ErrMissingMerchantCity
	}
	txid := truncate(strings.TrimSpace(p.TxID), MaxTxIDLength)
	if txid == "" {
		return "", ErrMissingTxID
	}
	description := truncate(strings.TrimSpace(p.Description), MaxDescriptionLength)

	account := tlv(subIDGUI, pixGUI) + tlv(subIDKey, key)
	if description != "" {
		account += tlv(subIDDescription, description)
	}

	var b strings.Builder
	b.WriteString(tlv(idPayloadFormat, payloadFormatValue))
	merchantAccount, err := tlvChecked(idMerchantAccount, account)
	if err != nil {
		return "", err
	}
	b.WriteString(merchantAccount)
	b.WriteString(tlv(idMerchantCategoryCode, merchantCategory))
	b.WriteString(tlv(idCurrency, currencyBRL))
	b.WriteString(tlv(idAmount, FormatAmount(p.AmountCents)))
	b.WriteString(tlv(idCountryCode, countryBR))
	b.WriteString(tlv(idMerchantName, name))
	b.WriteString(tlv(idMerchantCity, city))
	b.WriteString(tlv(idAdditionalData, tlv(subIDTxID, txid)))

	// The CRC tag and its length are part of the checksummed input.
	b.WriteString(idCRC + "04")
	payload := b.String()

	return payload + fmt.Sprintf("%04X", crc16(payload)), nil
}

// FormatAmount renders centavos as the decimal string carried in element 54,
// always with exactly two fractional digits (e.g. 2550 -> "25.50").
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// NormalizeKey prepares a PIX key for encoding. Keys are trimmed; CPF and
// CNPJ keys (numeric, 11 or 14 digits once punctuation is removed) are
// reduced to bare digits. Email, phone (+55...) and random UUID keys pass
// through unchanged.
func NormalizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	if key == "" || strings.ContainsAny(key, "@+") {
		return key
	}
	for _, r := range key {
		if unicode.IsLetter(r) {
			return key
		}
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, key)
	if len(digits) == 11 || len(digits) == 14 {
		return digits
	}
	return key
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
