package models

import "time"

const (
	CurrencyBTC  = "btc"
	CurrencyETH  = "eth"
	CurrencyUSDT = "usdt"
)

// Currencies lists every currency an account can hold.
var Currencies = []string{CurrencyBTC, CurrencyETH, CurrencyUSDT}

func IsCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

type KycStatus string

const (
	KycNotVerified KycStatus = "not_verified"
	KycPending     KycStatus = "pending"
	KycVerified    KycStatus = "verified"
	KycRejected    KycStatus = "rejected"
)

type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxPayout     TransactionType = "payout"
	TxPurchase   TransactionType = "purchase"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

type Balances map[string]float64

func NewBalances() Balances {
	b := make(Balances, len(Currencies))
	for _, c := range Currencies {
		b[c] = 0
	}
	return b
}

type User struct {
	ID           string           `json:"id"`
	Username     string           `json:"username"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"password_hash"`
	IsAdmin      bool             `json:"is_admin"`
	KycStatus    KycStatus        `json:"kyc_status"`
	Balances     Balances         `json:"balances"`
	Contracts    []MiningContract `json:"contracts"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ActiveHashrate sums the hashrate of contracts that have not expired yet.
// Activity is derived from expiry, never stored.
func (u *User) ActiveHashrate(now time.Time) float64 {
	var total float64
	for _, c := range u.Contracts {
		if c.IsActive(now) {
			total += c.Hashrate
		}
	}
	return total
}

type MiningContract struct {
	ID           string    `json:"id"`
	PlanID       string    `json:"plan_id"`
	PlanName     string    `json:"plan_name"`
	Hashrate     float64   `json:"hashrate"` // GH/s
	PurchaseDate time.Time `json:"purchase_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
}

func (c *MiningContract) IsActive(now time.Time) bool {
	return now.Before(c.ExpiryDate)
}

type Transaction struct {
	ID            string            `json:"id"`
	Seq           uint64            `json:"seq"`
	UserID        string            `json:"user_id"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Date          time.Time         `json:"date"`
	Address       string            `json:"address"`
	Details       string            `json:"details,omitempty"`
	TxHash        string            `json:"tx_hash,omitempty"`
	Confirmations int               `json:"confirmations,omitempty"`
	PayoutCycleID string            `json:"payout_cycle_id,omitempty"`
}

// IsTerminal reports whether the transaction reached a final status.
// Terminal transactions never transition again.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Hashrate     float64  `json:"hashrate"` // GH/s
	DurationDays int      `json:"duration_days"`
	Price        float64  `json:"price"` // USD, paid in usdt
	Features     []string `json:"features"`
	BestValue    bool     `json:"best_value"`
}

// Rates maps a currency code to its USD price.
type Rates map[string]float64

type ActivityEntry struct {
	Time    time.Time `json:"time"`
	UserID  string    `json:"user_id,omitempty"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}
