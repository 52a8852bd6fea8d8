package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Settlement states reported by the Bakong network.
const (
	PaymentStatusPaid   = "PAID"
	PaymentStatusUnpaid = "UNPAID"
)

// ErrExternalService marks failures of the payment network itself, as
// opposed to a transaction simply not being settled yet.
var ErrExternalService = errors.New("payment network unavailable")

// BakongClient queries the Bakong open API for transaction settlement.
// The network identifies transactions by the md5 digest of the KHQR
// payload presented to the payer.
type BakongClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewBakongClient constructs a client with a bounded request timeout.
// Bakong is the one external dependency with unbounded latency risk, so
// the timeout is not left to transport defaults.
func NewBakongClient(baseURL, token string) *BakongClient {
	return &BakongClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type checkTransactionRequest struct {
	MD5 string `json:"md5"`
}

type checkTransactionResponse struct {
	ResponseCode    int    `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

// CheckTransactionByMD5 asks the network whether the transaction with the
// given payload digest has settled. Returns PaymentStatusPaid or
// PaymentStatusUnpaid; a transaction the network has never seen is unpaid.
func (b *BakongClient) CheckTransactionByMD5(ctx context.Context, digest string) (string, error) {
	body, err := json.Marshal(checkTransactionRequest{MD5: digest})
	if err != nil {
		return "", err
	}

	url := b.baseURL + "/v1/check_transaction_by_md5"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.token)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	var parsed checkTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	if parsed.ResponseCode == 0 {
		return PaymentStatusPaid, nil
	}
	return PaymentStatusUnpaid, nil
}
