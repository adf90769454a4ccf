package allocation

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAllocationNotFound  = errors.New("debt allocation not found")
	ErrDuplicateAllocation = errors.New("debt allocation already exists")
)

// Allocation assigns one monthly debt instance to one projected paycheck.
// PaycheckId is the deterministic occurrence id, not a foreign key; paychecks
// have no backing rows. PaymentAmount overrides the debt amount when set.
type Allocation struct {
	Id            int
	AccountId     int
	InstanceId    int
	PaycheckId    string
	UserId        int
	PaymentAmount *decimal.Decimal
	PaymentDate   *time.Time
	Paid          bool
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
