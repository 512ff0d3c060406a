package domain

// Transaction Model
//
// One row of the append-only bank ledger. Amounts are immutable once the row
// exists; only Confirmed flips (one way) before the row is deleted. A transfer
// between two different accounts is stored as two rows that point at each
// other through LinkedID; a deposit/withdrawal (sender == receiver) has no
// link. Currency columns are nullable so that an absent denomination
// round-trips as absent rather than as a stored zero.
type Transaction struct {
	ID          uint   `gorm:"primaryKey" json:"id"`              // Primary key, monotonically assigned
	Date        string `gorm:"not null" json:"date"`              // UTC ISO-8601 creation timestamp
	CreatedBy   uint   `gorm:"not null" json:"created_by"`        // User who initiated it (audit only)
	SenderID    uint   `gorm:"not null;index" json:"sender_id"`   // Sending account number
	ReceiverID  uint   `gorm:"not null;index" json:"receiver_id"` // Account this row is a statement against
	Description string `gorm:"not null" json:"description"`       // Free text, required
	Confirmed   bool   `gorm:"not null" json:"confirmed"`         // Only confirmed rows count toward balances
	LinkedID    *uint  `gorm:"index" json:"linked_id,omitempty"`  // Back-reference to the paired transfer row
	Platinum    *int   `json:"platinum,omitempty"`                // Amount per denomination, nil = absent
	Gold        *int   `json:"gold,omitempty"`
	Electrum    *int   `json:"electrum,omitempty"`
	Silver      *int   `json:"silver,omitempty"`
	Copper      *int   `json:"copper,omitempty"`
}

// TableName keeps the original ledger table name.
func (Transaction) TableName() string { return "bank_transactions" }

// Amounts returns the row's currency amounts as Coins, skipping absent
// denominations.
func (t *Transaction) Amounts() Coins {
	coins := Coins{}
	for cur, field := range t.currencyFields() {
		if *field != nil {
			coins[cur] = **field
		}
	}
	return coins
}

// SetAmounts writes coins into the currency columns. Zero or absent
// denominations become nil columns.
func (t *Transaction) SetAmounts(coins Coins) {
	for cur, field := range t.currencyFields() {
		if amount, ok := coins[cur]; ok && amount != 0 {
			v := amount
			*field = &v
		} else {
			*field = nil
		}
	}
}

// currencyFields maps each denomination to its column.
func (t *Transaction) currencyFields() map[Currency]**int {
	return map[Currency]**int{
		Platinum: &t.Platinum,
		Gold:     &t.Gold,
		Electrum: &t.Electrum,
		Silver:   &t.Silver,
		Copper:   &t.Copper,
	}
}
