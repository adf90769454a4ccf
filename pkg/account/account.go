package account

import "errors"

var (
	ErrAccountNotFound = errors.New("budget account not found")
	ErrNotMember       = errors.New("user is not a member of the budget account")
	ErrAlreadyMember   = errors.New("user is already a member of the budget account")
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// BudgetAccount groups the incomes, debts and allocations shared by a
// household. Every planning operation is scoped to one account.
type BudgetAccount struct {
	Id   int
	Name string
}

type Member struct {
	AccountId   int
	UserId      int
	Role        string
	Username    string
	DisplayName string
}
