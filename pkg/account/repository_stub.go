package account

import "context"

type membership struct {
	accountId int
	userId    int
}

type StubRepository struct {
	accounts map[int]BudgetAccount
	members  map[membership]string
	nextId   int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		accounts: make(map[int]BudgetAccount),
		members:  make(map[membership]string),
		nextId:   1,
	}
}

func (r *StubRepository) CreateAccount(_ context.Context, name string, creatorUserId int) (BudgetAccount, error) {
	acc := BudgetAccount{Id: r.nextId, Name: name}
	r.nextId++
	r.accounts[acc.Id] = acc
	r.members[membership{acc.Id, creatorUserId}] = RoleOwner
	return acc, nil
}

func (r *StubRepository) GetAccount(_ context.Context, accountId int) (BudgetAccount, error) {
	acc, ok := r.accounts[accountId]
	if !ok {
		return BudgetAccount{}, ErrAccountNotFound
	}
	return acc, nil
}

func (r *StubRepository) ListAccountsForUser(_ context.Context, userId int) ([]BudgetAccount, error) {
	var accounts []BudgetAccount
	for id := 1; id < r.nextId; id++ {
		if _, ok := r.members[membership{id, userId}]; ok {
			accounts = append(accounts, r.accounts[id])
		}
	}
	return accounts, nil
}

func (r *StubRepository) AddMember(_ context.Context, accountId int, userId int) error {
	key := membership{accountId, userId}
	if _, ok := r.members[key]; ok {
		return ErrAlreadyMember
	}
	r.members[key] = RoleMember
	return nil
}

func (r *StubRepository) IsMember(_ context.Context, accountId int, userId int) (bool, error) {
	_, ok := r.members[membership{accountId, userId}]
	return ok, nil
}

func (r *StubRepository) ListMembers(_ context.Context, accountId int) ([]Member, error) {
	var members []Member
	for key, role := range r.members {
		if key.accountId == accountId {
			members = append(members, Member{AccountId: accountId, UserId: key.userId, Role: role})
		}
	}
	return members, nil
}
