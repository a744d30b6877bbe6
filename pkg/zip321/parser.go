// Package zip321 implements the ZIP 321 payment request URI format.
//
// ZIP 321 defines a standardized URI format for Zcash payment requests,
// similar to Bitcoin's BIP 21. It allows encoding payment information
// (recipient addresses, amounts, memos) in a URI that can be shared
// via QR codes, links, or text.
//
// URI Format:
//   zcash:<address>?amount=<amount>&memo=<memo>&message=<message>
//
// Multiple recipients are supported with indexed parameters:
//   zcash:?address.1=<addr1>&amount.1=<amt1>&address.2=<addr2>&amount.2=<amt2>
//
// Recipient addresses are validated with the address package; memos are
// carried base64url-encoded per the ZIP and surface as decoded Memo
// values.
//
// See: https://zips.z.cash/zip-0321
package zip321

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/suffix-labs/zcash-keys/pkg/address"
)

// PaymentRequest represents a parsed ZIP 321 payment request.
//
// A payment request can have multiple recipients (payments), each with
// their own address, amount, and memo.
type PaymentRequest struct {
	Payments []Payment // List of payment recipients
}

// Payment represents a single payment within a ZIP 321 request.
type Payment struct {
	Address address.Address // Recipient address, already validated
	Amount  *float64        // Amount in ZEC (nil = user specifies)
	Memo    *address.Memo   // Optional decoded memo
	Label   *string         // Optional label for recipient
	Message *string         // Optional message to display to user
}

// memoEncoding is base64url without padding, as ZIP 321 specifies.
var memoEncoding = base64.RawURLEncoding

// Parse parses a ZIP 321 payment request URI.
//
// URI formats supported:
//   1. Single recipient: zcash:<address>?amount=1.5&memo=<base64url>
//   2. Multiple recipients: zcash:?address.1=addr1&amount.1=1.0&address.2=addr2&amount.2=2.0
//
// Parameters:
//   - uri: The ZIP 321 URI string (with or without "zcash:" prefix)
//
// Returns:
//   - PaymentRequest with one or more payments
//   - Error if the URI is malformed, an address fails validation, or a
//     memo is not valid base64url
func Parse(uri string) (*PaymentRequest, error) {
	uri = strings.TrimPrefix(uri, "zcash:")

	parts := strings.SplitN(uri, "?", 2)

	var baseAddress string
	var query string

	if len(parts) == 2 {
		baseAddress = parts[0]
		query = parts[1]
	} else if strings.Contains(parts[0], "=") {
		query = parts[0]
	} else {
		baseAddress = parts[0]
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	var payments []Payment
	if hasIndexedParams(params) {
		payments, err = parseIndexedPayments(params)
		if err != nil {
			return nil, err
		}
	} else {
		payment, err := parseSinglePayment(baseAddress, params)
		if err != nil {
			return nil, err
		}
		payments = []Payment{payment}
	}

	if len(payments) == 0 {
		return nil, fmt.Errorf("no payments found in URI")
	}
	return &PaymentRequest{Payments: payments}, nil
}

// parseSinglePayment parses a single-recipient payment request.
func parseSinglePayment(addr string, params url.Values) (Payment, error) {
	// The address may appear in the path or as a parameter.
	if addrParam := params.Get("address"); addrParam != "" {
		addr = addrParam
	}
	if addr == "" {
		return Payment{}, fmt.Errorf("payment request has no address")
	}
	decoded, err := address.Decode(addr)
	if err != nil {
		return Payment{}, fmt.Errorf("invalid recipient address: %w", err)
	}
	payment := Payment{Address: decoded}

	if amountStr := params.Get("amount"); amountStr != "" {
		amount, err := parseAmount(amountStr)
		if err != nil {
			return payment, fmt.Errorf("invalid amount: %w", err)
		}
		payment.Amount = &amount
	}
	if memoStr := params.Get("memo"); memoStr != "" {
		memo, err := decodeMemoParam(memoStr)
		if err != nil {
			return payment, err
		}
		payment.Memo = memo
	}
	if label := params.Get("label"); label != "" {
		payment.Label = &label
	}
	if message := params.Get("message"); message != "" {
		payment.Message = &message
	}
	return payment, nil
}

// parseIndexedPayments parses multiple recipients using indexed parameters.
//
// Format: address.1=addr1&amount.1=1.0&address.2=addr2&amount.2=2.0
//
// ZIP 321 allows indices from 0-9999. Index 0 can be written without suffix.
func parseIndexedPayments(params url.Values) ([]Payment, error) {
	indices := make(map[int]bool)
	for key := range params {
		if idx := extractIndex(key); idx >= 0 {
			indices[idx] = true
		}
	}

	payments := make(map[int]Payment)
	for idx := range indices {
		addr := getIndexedParam(params, "address", idx)
		if addr == "" {
			return nil, fmt.Errorf("payment %d missing address", idx)
		}
		decoded, err := address.Decode(addr)
		if err != nil {
			return nil, fmt.Errorf("payment %d invalid address: %w", idx, err)
		}
		payment := Payment{Address: decoded}

		if amountStr := getIndexedParam(params, "amount", idx); amountStr != "" {
			amount, err := parseAmount(amountStr)
			if err != nil {
				return nil, fmt.Errorf("payment %d invalid amount: %w", idx, err)
			}
			payment.Amount = &amount
		}
		if memoStr := getIndexedParam(params, "memo", idx); memoStr != "" {
			memo, err := decodeMemoParam(memoStr)
			if err != nil {
				return nil, fmt.Errorf("payment %d: %w", idx, err)
			}
			payment.Memo = memo
		}
		if label := getIndexedParam(params, "label", idx); label != "" {
			payment.Label = &label
		}
		if message := getIndexedParam(params, "message", idx); message != "" {
			payment.Message = &message
		}
		payments[idx] = payment
	}

	result := make([]Payment, 0, len(payments))
	for i := 0; i < 10000; i++ {
		if payment, exists := payments[i]; exists {
			result = append(result, payment)
		}
	}
	return result, nil
}

// decodeMemoParam expands a base64url memo parameter into the 512-byte
// memo field and interprets it.
func decodeMemoParam(s string) (*address.Memo, error) {
	raw, err := memoEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("memo is not valid base64url: %w", err)
	}
	if len(raw) > address.MemoSize {
		return nil, fmt.Errorf("memo exceeds %d bytes", address.MemoSize)
	}
	var field [address.MemoSize]byte
	copy(field[:], raw)
	memo, err := address.DecodeMemo(field)
	if err != nil {
		return nil, fmt.Errorf("invalid memo: %w", err)
	}
	return &memo, nil
}

// hasIndexedParams checks if the query contains indexed parameters.
//
// Indexed parameters have format "name.N" where N is 0-9999.
func hasIndexedParams(params url.Values) bool {
	for key := range params {
		if strings.Contains(key, ".") {
			return true
		}
	}
	return false
}

// extractIndex extracts the index from a parameter name.
//
// Examples:
//   - "address.1" -> 1
//   - "amount.42" -> 42
//   - "address" -> -1 (no index)
//
// Returns -1 if no index found.
func extractIndex(paramName string) int {
	parts := strings.Split(paramName, ".")
	if len(parts) != 2 {
		return -1
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return -1
	}
	if idx < 0 || idx > 9999 {
		return -1
	}
	return idx
}

// getIndexedParam gets a parameter value for a specific index.
//
// For index 0, tries both "name" and "name.0".
// For other indices, tries "name.N".
func getIndexedParam(params url.Values, name string, index int) string {
	if index == 0 {
		if val := params.Get(name); val != "" {
			return val
		}
	}
	return params.Get(fmt.Sprintf("%s.%d", name, index))
}

// parseAmount parses a ZEC amount string.
//
// Amounts must be non-negative decimal numbers.
func parseAmount(amountStr string) (float64, error) {
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0, fmt.Errorf("not a valid number: %w", err)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return amount, nil
}

// ============================================================================
// Helper functions for creating ZIP 321 URIs
// ============================================================================

// Encode creates a ZIP 321 URI from a PaymentRequest.
//
// This is the inverse of Parse(). Text memos are re-encoded into the
// base64url form the ZIP requires.
func (req *PaymentRequest) Encode() (string, error) {
	if len(req.Payments) == 0 {
		return "zcash:", nil
	}
	if len(req.Payments) == 1 {
		return encodeSinglePayment(req.Payments[0])
	}
	return encodeMultiplePayments(req.Payments)
}

// encodeMemoParam renders a decoded memo back to base64url.
func encodeMemoParam(m *address.Memo) (string, error) {
	switch m.Kind {
	case address.MemoText:
		field, err := address.EncodeTextMemo(m.Text)
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimRight(string(field[:]), "\x00")
		return memoEncoding.EncodeToString([]byte(trimmed)), nil
	case address.MemoArbitrary:
		data := append([]byte{0xff}, m.Data...)
		return memoEncoding.EncodeToString(data), nil
	default:
		return "", fmt.Errorf("memo kind %v cannot be encoded in a payment request", m.Kind)
	}
}

// encodeSinglePayment encodes a single payment as a URI.
func encodeSinglePayment(p Payment) (string, error) {
	uri := "zcash:" + p.Address.String()

	params := url.Values{}
	if p.Amount != nil {
		params.Add("amount", formatAmount(*p.Amount))
	}
	if p.Memo != nil {
		memo, err := encodeMemoParam(p.Memo)
		if err != nil {
			return "", err
		}
		params.Add("memo", memo)
	}
	if p.Label != nil {
		params.Add("label", *p.Label)
	}
	if p.Message != nil {
		params.Add("message", *p.Message)
	}
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	return uri, nil
}

// encodeMultiplePayments encodes multiple payments with indexed parameters.
func encodeMultiplePayments(payments []Payment) (string, error) {
	params := url.Values{}
	for i, p := range payments {
		idx := fmt.Sprintf(".%d", i)
		params.Add("address"+idx, p.Address.String())
		if p.Amount != nil {
			params.Add("amount"+idx, formatAmount(*p.Amount))
		}
		if p.Memo != nil {
			memo, err := encodeMemoParam(p.Memo)
			if err != nil {
				return "", err
			}
			params.Add("memo"+idx, memo)
		}
		if p.Label != nil {
			params.Add("label"+idx, *p.Label)
		}
		if p.Message != nil {
			params.Add("message"+idx, *p.Message)
		}
	}
	return "zcash:?" + params.Encode(), nil
}

// formatAmount formats a ZEC amount for URI encoding.
//
// Removes unnecessary trailing zeros and decimal point.
func formatAmount(amount float64) string {
	str := strconv.FormatFloat(amount, 'f', 8, 64)
	str = strings.TrimRight(str, "0")
	str = strings.TrimRight(str, ".")
	return str
}
