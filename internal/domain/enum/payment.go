package enum

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// PaymentTransactionStatus represents the status of a single payment attempt
type PaymentTransactionStatus string

const (
	PaymentTransactionPending    PaymentTransactionStatus = "Pending"
	PaymentTransactionProcessing PaymentTransactionStatus = "Processing"
	PaymentTransactionCompleted  PaymentTransactionStatus = "Completed"
	PaymentTransactionFailed     PaymentTransactionStatus = "Failed"
	PaymentTransactionCancelled  PaymentTransactionStatus = "Cancelled"
)

func (s PaymentTransactionStatus) String() string {
	return string(s)
}

// IsVoidable reports whether a payment in this status can still be voided
func (s PaymentTransactionStatus) IsVoidable() bool {
	return s == PaymentTransactionPending || s == PaymentTransactionProcessing
}

func (s PaymentTransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *PaymentTransactionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentTransactionPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = PaymentTransactionStatus(v)
	case []byte:
		*s = PaymentTransactionStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentTransactionStatus", value)
	}
	return nil
}

// PaymentMethod represents how a payment is made
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
	PaymentMethodCreditCard   PaymentMethod = "CreditCard"
	PaymentMethodDebitCard    PaymentMethod = "DebitCard"
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodPayPal       PaymentMethod = "PayPal"
	PaymentMethodDirectDebit  PaymentMethod = "DirectDebit"
	PaymentMethodInvoice      PaymentMethod = "Invoice"
)

// ParsePaymentMethod parses a method string case-insensitively
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, m := range []PaymentMethod{
		PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodCash, PaymentMethodPayPal, PaymentMethodDirectDebit, PaymentMethodInvoice,
	} {
		if strings.EqualFold(value, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method: %q", value)
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentMethod", value)
	}
	return nil
}
