package warning

import (
	"errors"
	"fmt"
)

var ErrDuplicateDismissal = errors.New("warning dismissal already exists")

type Type string

const (
	InsufficientFunds Type = "insufficient_funds"
	LatePayment       Type = "late_payment"
	DebtUnpaid        Type = "debt_unpaid"
)

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case InsufficientFunds, LatePayment, DebtUnpaid:
		return t, nil
	default:
		return "", fmt.Errorf("unknown warning type: %s", s)
	}
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Warning is a derived cash-flow signal. Warnings are recomputed on every
// planning request and never stored; Key is rebuilt deterministically from
// the underlying data so a stored dismissal keeps matching across requests.
type Warning struct {
	Type     Type
	Key      string
	Severity Severity
	Message  string
}

// Dismissal suppresses one warning, identified by type and key, for one user.
type Dismissal struct {
	AccountId int
	UserId    int
	Type      Type
	Key       string
}
