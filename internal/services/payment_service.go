package services

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/example/rakshop/internal/config"
	"github.com/example/rakshop/internal/khqr"
	"github.com/example/rakshop/internal/models"
)

// Payment failure variants.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

// PaymentService computes cart totals, issues KHQR payment codes and
// resolves their settlement status against the Bakong network.
type PaymentService struct {
	db       *gorm.DB
	cfg      *config.Config
	bakong   *BakongClient
	telegram *TelegramService
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(db *gorm.DB, cfg *config.Config, bakong *BakongClient, telegram *TelegramService) *PaymentService {
	return &PaymentService{db: db, cfg: cfg, bakong: bakong, telegram: telegram}
}

// QRResult is a persisted payment together with its rendered QR image.
type QRResult struct {
	Payment  models.Payment
	ImageURI string
}

// GenerateQR resolves the cart, builds a KHQR payload for the total under
// the configured merchant account, persists the payment record and returns
// the payload rendered as a base64 PNG data URI.
//
// Every product id must resolve: a single unknown id fails the whole
// request and writes nothing. The payload only leaves the process in the
// returned image, after the record insert succeeded, so an issued QR can
// never outlive a missing record.
func (s *PaymentService) GenerateQR(ctx context.Context, productIDs []string) (*QRResult, error) {
	ids := make([]uuid.UUID, 0, len(productIDs))
	seen := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, raw := range productIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrProductNotFound
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrProductNotFound
	}

	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, ErrProductNotFound
	}

	var amount float64
	for _, product := range products {
		amount += product.Price
	}

	billNumber := "TRX-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])

	payload, err := khqr.Generate(khqr.Options{
		AccountID:     s.cfg.BakongAccountID,
		MerchantName:  s.cfg.MerchantName,
		MerchantCity:  s.cfg.MerchantCity,
		MobileNumber:  s.cfg.MerchantPhone,
		BillNumber:    billNumber,
		StoreLabel:    s.cfg.StoreLabel,
		TerminalLabel: s.cfg.TerminalLabel,
		Currency:      s.cfg.PaymentCurrency,
		Amount:        amount,
	})
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, 512)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		QRData:     payload,
		Amount:     amount,
		Currency:   s.cfg.PaymentCurrency,
		BillNumber: billNumber,
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}

	if s.telegram != nil {
		go func(p models.Payment) {
			if err := s.telegram.NotifyPaymentCreated(p); err != nil {
				log.Printf("telegram payment notification failed: %v", err)
			}
		}(payment)
	}

	return &QRResult{
		Payment:  payment,
		ImageURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// StatusResult reports the settlement state of a single payment record.
type StatusResult struct {
	Status  string
	Digest  string
	Payment models.Payment
}

// CheckStatus re-derives the settlement status of the identified payment
// by querying the network with the md5 digest of its payload. Persisted
// state is never mutated; repeated calls without an external state change
// return the same answer.
func (s *PaymentService) CheckStatus(ctx context.Context, paymentID uuid.UUID) (*StatusResult, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	digest := khqr.Digest(payment.QRData)

	status, err := s.bakong.CheckTransactionByMD5(ctx, digest)
	if err != nil {
		return nil, err
	}

	return &StatusResult{Status: status, Digest: digest, Payment: payment}, nil
}
