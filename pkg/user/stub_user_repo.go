package user

import "context"

type StubUserRepo struct {
	users  map[int]User
	nextId int
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{users: make(map[int]User), nextId: 1}
}

func (r *StubUserRepo) CreateUser(_ context.Context, u User) (User, error) {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return User{}, ErrUsernameTaken
		}
	}
	u.Id = r.nextId
	r.nextId++
	r.users[u.Id] = u
	return u, nil
}

func (r *StubUserRepo) GetUser(_ context.Context, id int) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *StubUserRepo) GetUserByUid(_ context.Context, uid string) (User, error) {
	for _, u := range r.users {
		if u.Uid == uid {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *StubUserRepo) UpdateUser(_ context.Context, u User) (User, error) {
	if _, ok := r.users[u.Id]; !ok {
		return User{}, ErrUserNotFound
	}
	r.users[u.Id] = u
	return u, nil
}

func (r *StubUserRepo) GetAllUsers(_ context.Context) ([]User, error) {
	users := make([]User, 0, len(r.users))
	for id := 1; id < r.nextId; id++ {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}
