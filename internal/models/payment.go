package models

// Payment pairs a generated KHQR payload with the amount it encodes.
// No settlement flag is stored: status is re-derived from the Bakong
// network on every check, keyed by the md5 digest of QRData.
type Payment struct {
	BaseModel
	QRData     string  `json:"qr_data"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	BillNumber string  `json:"bill_number"`
}
