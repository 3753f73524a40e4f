package money

import (
	"database/sql/driver"
	"fmt"
)

// Amounts are stored as BIGINT cents.

func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*a = Amount(v)
		return nil
	case nil:
		*a = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into money.Amount", src)
	}
}
