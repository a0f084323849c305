package enum

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// CouponType represents how a coupon discounts an order total
type CouponType string

const (
	CouponTypePercentage  CouponType = "Percentage"
	CouponTypeFixedAmount CouponType = "FixedAmount"
)

// ParseCouponType parses a coupon type string case-insensitively
func ParseCouponType(value string) (CouponType, error) {
	for _, t := range []CouponType{CouponTypePercentage, CouponTypeFixedAmount} {
		if strings.EqualFold(value, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown coupon type: %q", value)
}

func (t CouponType) String() string {
	return string(t)
}

func (t CouponType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *CouponType) Scan(value interface{}) error {
	if value == nil {
		*t = CouponTypePercentage
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = CouponType(v)
	case []byte:
		*t = CouponType(v)
	default:
		return fmt.Errorf("cannot scan %T into CouponType", value)
	}
	return nil
}
