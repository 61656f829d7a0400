package domain

// Redemption is an active K-Coins redemption granting priority visibility
type Redemption struct {
	Commodity     string     `json:"commodity"`
	ValidUntil    *LocalTime `json:"validUntil,omitempty"`
	CoinsRedeemed int        `json:"coinsRedeemed"`
}

// KCoinsStatus is the collector's loyalty balance view
type KCoinsStatus struct {
	Balance            int         `json:"kCoinsBalance"`
	DailyCollectedKg   float64     `json:"dailyCollectedKg"`
	ThresholdUnlocked  bool        `json:"thresholdUnlocked"`
	RedemptionEligible bool        `json:"redemptionEligible"`
	PriorityActive     bool        `json:"priorityActive"`
	PriorityExpiresAt  *LocalTime  `json:"priorityExpiresAt,omitempty"`
	ActiveRedemption   *Redemption `json:"activeRedemption,omitempty"`
}

// RedeemResult is returned by a successful redemption
type RedeemResult struct {
	Success        bool       `json:"success"`
	ValidUntil     *LocalTime `json:"validUntil,omitempty"`
	Commodity      string     `json:"commodity"`
	PriorityActive bool       `json:"priorityActive"`
}

// CitizenDashboard summarizes a citizen's sales to collectors
type CitizenDashboard struct {
	TotalEarnings    float64 `json:"totalEarnings"`
	TotalWasteSoldKg float64 `json:"totalWasteSoldKg"`
	TransactionCount int     `json:"transactionCount"`
}

// KabadiDashboard summarizes a collector's purchases and loyalty state
type KabadiDashboard struct {
	TotalCollectedKg  float64 `json:"totalCollectedKg"`
	DailyCollectedKg  float64 `json:"dailyCollectedKg"`
	ThresholdUnlocked bool    `json:"thresholdUnlocked"`
	ThresholdKg       int     `json:"thresholdKg"`
	KCoinsBalance     int     `json:"kCoinsBalance"`
	PriorityActive    bool    `json:"priorityActive"`
	TransactionCount  int     `json:"transactionCount"`
}

// Period filters dashboard transaction lists
type Period string

const (
	PeriodAll     Period = ""
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)
