package enum

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// MovementType classifies an inventory movement
type MovementType string

const (
	MovementTypeAdjustment MovementType = "Adjustment"
	MovementTypeSale       MovementType = "Sale"
	MovementTypeReturn     MovementType = "Return"
	MovementTypeRestock    MovementType = "Restock"
)

// ParseMovementType parses a movement type string case-insensitively
func ParseMovementType(value string) (MovementType, error) {
	for _, t := range []MovementType{
		MovementTypeAdjustment, MovementTypeSale, MovementTypeReturn, MovementTypeRestock,
	} {
		if strings.EqualFold(value, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown movement type: %q", value)
}

func (t MovementType) String() string {
	return string(t)
}

func (t MovementType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	if value == nil {
		*t = MovementTypeAdjustment
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = MovementType(v)
	case []byte:
		*t = MovementType(v)
	default:
		return fmt.Errorf("cannot scan %T into MovementType", value)
	}
	return nil
}
