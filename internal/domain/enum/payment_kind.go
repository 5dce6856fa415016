package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentKind separates money paid out (to suppliers) from money collected (from clients)
type PaymentKind int

const (
	PaymentKindPayment    PaymentKind = 0
	PaymentKindCollection PaymentKind = 1
)

func (k PaymentKind) String() string {
	switch k {
	case PaymentKindPayment:
		return "payment"
	case PaymentKindCollection:
		return "collection"
	}
	return fmt.Sprintf("PaymentKind(%d)", int(k))
}

func (k PaymentKind) IsValid() bool {
	return k == PaymentKindPayment || k == PaymentKindCollection
}

// ParsePaymentKind accepts the wire names "payment" and "collection"
func ParsePaymentKind(s string) (PaymentKind, error) {
	switch s {
	case "payment":
		return PaymentKindPayment, nil
	case "collection":
		return PaymentKindCollection, nil
	}
	return 0, fmt.Errorf("unknown payment kind %q", s)
}

func (k PaymentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *PaymentKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = PaymentKind(i)
		return nil
	}
	parsed, err := ParsePaymentKind(str)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k PaymentKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *PaymentKind) Scan(value interface{}) error {
	if value == nil {
		*k = PaymentKindPayment
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = PaymentKind(v)
	case int:
		*k = PaymentKind(v)
	}
	return nil
}
