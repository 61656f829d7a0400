package domain

// TransactionLineItem is one material purchase in the collector's pending list
type TransactionLineItem struct {
	ID           string       `json:"id"`
	MaterialType MaterialType `json:"materialType"`
	WeightKg     float64      `json:"weightKg"`
	PricePerKg   float64      `json:"pricePerKg"`
}

// NewTransactionLineItem validates the picker values and builds a line item
func NewTransactionLineItem(id string, material MaterialType, weightKg, pricePerKg float64) (TransactionLineItem, error) {
	if !material.Valid() {
		return TransactionLineItem{}, ErrUnknownMaterial
	}
	if !ValidAmount(weightKg) {
		return TransactionLineItem{}, ErrInvalidWeight
	}
	if !ValidAmount(pricePerKg) {
		return TransactionLineItem{}, ErrInvalidPrice
	}
	return TransactionLineItem{
		ID:           id,
		MaterialType: material,
		WeightKg:     weightKg,
		PricePerKg:   pricePerKg,
	}, nil
}

// TransactionRequest is the log-transaction payload
type TransactionRequest struct {
	UserID       *int64       `json:"userId,omitempty"`
	KabadiWalaID int64        `json:"kabadiWalaId"`
	MaterialType MaterialType `json:"materialType"`
	WeightKg     float64      `json:"weightKg"`
	PricePerKg   float64      `json:"pricePerKg"`
}

// TransactionResult is the backend's answer to one logged transaction
type TransactionResult struct {
	TransactionID     int64   `json:"transactionId"`
	AmountPaid        float64 `json:"amountPaid"`
	KCoinsEarned      int     `json:"kCoinsEarned"`
	NewKCoinBalance   int     `json:"newKCoinBalance"`
	DailyCollectedKg  float64 `json:"dailyCollectedKg"`
	ThresholdUnlocked bool    `json:"thresholdUnlocked"`
}

// TransactionRecord is a logged purchase as listed on dashboards
type TransactionRecord struct {
	ID              int64        `json:"id"`
	MaterialType    MaterialType `json:"materialType"`
	WeightKg        float64      `json:"weightKg"`
	AmountPaid      float64      `json:"amountPaid"`
	PricePerKg      float64      `json:"pricePerKg"`
	TransactionTime *LocalTime   `json:"transactionTime,omitempty"`
}
