package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TransactionKind tells a Sale from a Purchase
type TransactionKind int

const (
	TransactionKindSale     TransactionKind = 0
	TransactionKindPurchase TransactionKind = 1
)

func (k TransactionKind) String() string {
	switch k {
	case TransactionKindSale:
		return "sale"
	case TransactionKindPurchase:
		return "purchase"
	}
	return fmt.Sprintf("TransactionKind(%d)", int(k))
}

// IsValid reports whether k is a known kind
func (k TransactionKind) IsValid() bool {
	return k == TransactionKindSale || k == TransactionKindPurchase
}

// StockSign is the direction a transaction of this kind moves stock
func (k TransactionKind) StockSign() int {
	if k == TransactionKindSale {
		return -1
	}
	return 1
}

func (k TransactionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *TransactionKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = TransactionKind(i)
		return nil
	}
	switch str {
	case "sale":
		*k = TransactionKindSale
	case "purchase":
		*k = TransactionKindPurchase
	default:
		return fmt.Errorf("unknown transaction kind %q", str)
	}
	return nil
}

func (k TransactionKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *TransactionKind) Scan(value interface{}) error {
	if value == nil {
		*k = TransactionKindSale
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = TransactionKind(v)
	case int:
		*k = TransactionKind(v)
	}
	return nil
}
