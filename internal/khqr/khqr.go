// Package khqr builds KHQR payment payloads for the Bakong network.
//
// A KHQR payload is an EMVCo merchant-presented QR string: a flat sequence
// of tag-length-value fields terminated by a CRC-16 checksum. The Bakong
// network identifies a transaction by the md5 digest of the full payload.
package khqr

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// EMVCo field tags used by KHQR.
const (
	tagPayloadFormat      = "00"
	tagPointOfInitiation  = "01"
	tagMerchantAccount    = "29"
	tagMerchantCategory   = "52"
	tagCurrency           = "53"
	tagAmount             = "54"
	tagCountryCode        = "58"
	tagMerchantName       = "59"
	tagMerchantCity       = "60"
	tagAdditionalData     = "62"
	tagTimestamp          = "99"
	tagCRC                = "63"
	subTagAccountID       = "00"
	subTagBillNumber      = "01"
	subTagMobileNumber    = "02"
	subTagStoreLabel      = "03"
	subTagTerminalLabel   = "07"
	subTagCreationMillis  = "00"
	payloadFormatValue    = "01"
	initiationDynamic     = "12"
	merchantCategoryValue = "5999"
	countryCodeValue      = "KH"
)

// ISO 4217 numeric codes for the currencies Bakong settles.
var currencyCodes = map[string]string{
	"KHR": "116",
	"USD": "840",
}

// Options describe the merchant account a payment QR is issued under.
type Options struct {
	AccountID     string
	MerchantName  string
	MerchantCity  string
	MobileNumber  string
	BillNumber    string
	StoreLabel    string
	TerminalLabel string
	Currency      string
	Amount        float64
}

// Generate builds a dynamic KHQR payload for the given merchant options.
func Generate(opts Options) (string, error) {
	if opts.AccountID == "" {
		return "", fmt.Errorf("khqr: account id is required")
	}
	if opts.MerchantName == "" {
		return "", fmt.Errorf("khqr: merchant name is required")
	}
	if opts.Amount < 0 {
		return "", fmt.Errorf("khqr: amount must not be negative")
	}

	currency, ok := currencyCodes[opts.Currency]
	if !ok {
		return "", fmt.Errorf("khqr: unsupported currency %q", opts.Currency)
	}

	payload := tlv(tagPayloadFormat, payloadFormatValue) +
		tlv(tagPointOfInitiation, initiationDynamic) +
		tlv(tagMerchantAccount, tlv(subTagAccountID, opts.AccountID)) +
		tlv(tagMerchantCategory, merchantCategoryValue) +
		tlv(tagCurrency, currency) +
		tlv(tagAmount, FormatAmount(opts.Amount)) +
		tlv(tagCountryCode, countryCodeValue) +
		tlv(tagMerchantName, opts.MerchantName) +
		tlv(tagMerchantCity, opts.MerchantCity)

	if additional := additionalData(opts); additional != "" {
		payload += tlv(tagAdditionalData, additional)
	}

	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	payload += tlv(tagTimestamp, tlv(subTagCreationMillis, millis))

	payload += tagCRC + "04"
	payload += checksum(payload)

	return payload, nil
}

// Digest returns the md5 hex fingerprint Bakong uses to key a payload's
// settlement status.
func Digest(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// FormatAmount renders an amount without trailing zeros, as KHQR expects.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func additionalData(opts Options) string {
	var data string
	if opts.BillNumber != "" {
		data += tlv(subTagBillNumber, opts.BillNumber)
	}
	if opts.MobileNumber != "" {
		data += tlv(subTagMobileNumber, opts.MobileNumber)
	}
	if opts.StoreLabel != "" {
		data += tlv(subTagStoreLabel, opts.StoreLabel)
	}
	if opts.TerminalLabel != "" {
		data += tlv(subTagTerminalLabel, opts.TerminalLabel)
	}
	return data
}

func tlv(tag, value string) string {
	return tag + fmt.Sprintf("%02d", len(value)) + value
}

// checksum computes CRC-16/CCITT-FALSE over the payload including the
// already-appended CRC tag and length, per EMVCo.
func checksum(payload string) string {
	crc := uint16(0xFFFF)
	for _, b := range []byte(payload) {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}
