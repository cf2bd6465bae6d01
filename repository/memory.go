package repository

import (
	"context"
	"sort"
	"sync"

	"jwtpizza/model"
)

// Memory is an in-process Repository. It backs the fake backend and the default
// development server. Every method validates before it mutates.
type Memory struct {
	mu sync.RWMutex

	users      map[model.UserID]*model.User
	emails     map[string]model.UserID
	franchises map[uint]*model.Franchise
	menu       []model.MenuItem
	orders     []model.Order

	nextUserID      model.UserID
	nextRoleID      uint
	nextFranchiseID uint
	nextMenuID      uint
	nextOrderID     uint
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:           make(map[model.UserID]*model.User),
		emails:          make(map[string]model.UserID),
		franchises:      make(map[uint]*model.Franchise),
		nextUserID:      1,
		nextRoleID:      1,
		nextFranchiseID: 1,
		nextMenuID:      1,
		nextOrderID:     1,
	}
}

func (m *Memory) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emails[u.Email]; exists {
		return ErrDuplicate
	}
	u.ID = m.nextUserID
	m.nextUserID++
	for i := range u.Roles {
		u.Roles[i].ID = m.nextRoleID
		u.Roles[i].UserID = u.ID
		m.nextRoleID++
	}
	m.users[u.ID] = u.Clone()
	m.emails[u.Email] = u.ID
	return nil
}

func (m *Memory) UserByID(_ context.Context, id model.UserID) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	return m.users[id].Clone(), nil
}

// UpdateUser stores name, email and password. Roles are not touched.
func (m *Memory) UpdateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := m.emails[u.Email]; taken && owner != u.ID {
		return ErrDuplicate
	}
	delete(m.emails, current.Email)
	current.Name = u.Name
	current.Email = u.Email
	current.Password = u.Password
	m.emails[current.Email] = current.ID
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, id model.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.emails, u.Email)
	delete(m.users, id)
	return nil
}

func (m *Memory) ListUsers(_ context.Context, p Page) ([]model.User, bool, error) {
	p = p.normalized()
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]model.UserID, 0, len(m.users))
	for id, u := range m.users {
		if nameMatches(p.Name, u.Name) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	window, more := paginate(len(ids), p)
	users := make([]model.User, 0, len(window))
	for _, i := range window {
		users = append(users, *m.users[ids[i]].Clone())
	}
	return users, more, nil
}

func (m *Memory) Menu(_ context.Context) ([]model.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	menu := make([]model.MenuItem, len(m.menu))
	copy(menu, m.menu)
	return menu, nil
}

func (m *Memory) AddMenuItems(_ context.Context, items []model.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range items {
		items[i].ID = m.nextMenuID
		m.nextMenuID++
		m.menu = append(m.menu, items[i])
	}
	return nil
}

func (m *Memory) Franchises(_ context.Context, p Page) ([]model.Franchise, bool, error) {
	p = p.normalized()
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uint, 0, len(m.franchises))
	for id, f := range m.franchises {
		if nameMatches(p.Name, f.Name) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	window, more := paginate(len(ids), p)
	out := make([]model.Franchise, 0, len(window))
	for _, i := range window {
		out = append(out, m.franchiseView(m.franchises[ids[i]]))
	}
	return out, more, nil
}

func (m *Memory) FranchisesForAdmin(_ context.Context, id model.UserID) ([]model.Franchise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return []model.Franchise{}, nil
	}
	var ids []uint
	for _, r := range u.Roles {
		if r.Role == model.RoleFranchisee && r.ObjectID != nil {
			if _, exists := m.franchises[*r.ObjectID]; exists {
				ids = append(ids, *r.ObjectID)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]model.Franchise, 0, len(ids))
	for _, fid := range ids {
		out = append(out, m.franchiseView(m.franchises[fid]))
	}
	return out, nil
}

func (m *Memory) Franchise(_ context.Context, id uint) (*model.Franchise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.franchises[id]
	if !ok {
		return nil, ErrNotFound
	}
	view := m.franchiseView(f)
	return &view, nil
}

func (m *Memory) CreateFranchise(_ context.Context, f *model.Franchise, admins []model.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.franchises {
		if existing.Name == f.Name {
			return ErrDuplicate
		}
	}
	for _, id := range admins {
		if _, ok := m.users[id]; !ok {
			return ErrNotFound
		}
	}

	f.ID = m.nextFranchiseID
	m.nextFranchiseID++
	f.NextStoreID = 1
	f.Stores = []model.Store{}
	for _, id := range admins {
		objectID := f.ID
		u := m.users[id]
		u.Roles = append(u.Roles, model.RoleAssignment{
			ID:       m.nextRoleID,
			UserID:   id,
			Role:     model.RoleFranchisee,
			ObjectID: &objectID,
		})
		m.nextRoleID++
	}

	stored := *f
	m.franchises[f.ID] = &stored
	*f = m.franchiseView(&stored)
	return nil
}

func (m *Memory) DeleteFranchise(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.franchises[id]; !ok {
		return ErrNotFound
	}
	delete(m.franchises, id)
	for _, u := range m.users {
		kept := u.Roles[:0]
		for _, r := range u.Roles {
			if r.Role == model.RoleFranchisee && r.ObjectID != nil && *r.ObjectID == id {
				continue
			}
			kept = append(kept, r)
		}
		u.Roles = kept
	}
	return nil
}

func (m *Memory) CreateStore(_ context.Context, franchiseID uint, name string) (*model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.franchises[franchiseID]
	if !ok {
		return nil, ErrNotFound
	}
	store := model.Store{ID: f.NextStoreID, FranchiseID: franchiseID, Name: name}
	f.NextStoreID++
	f.Stores = append(f.Stores, store)
	return &store, nil
}

func (m *Memory) DeleteStore(_ context.Context, franchiseID, storeID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.franchises[franchiseID]
	if !ok {
		return ErrNotFound
	}
	for i, s := range f.Stores {
		if s.ID == storeID {
			f.Stores = append(f.Stores[:i:i], f.Stores[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) CreateOrder(_ context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.franchises[o.FranchiseID]
	if !ok {
		return ErrNotFound
	}
	idx := -1
	for i, s := range f.Stores {
		if s.ID == o.StoreID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	o.ID = m.nextOrderID
	m.nextOrderID++
	f.Stores[idx].TotalRevenue += o.Total()

	stored := *o
	stored.Items = make([]model.OrderItem, len(o.Items))
	copy(stored.Items, o.Items)
	for i := range stored.Items {
		stored.Items[i].OrderID = o.ID
	}
	m.orders = append(m.orders, stored)
	return nil
}

// OrdersForDiner returns the diner's orders, newest first.
func (m *Memory) OrdersForDiner(_ context.Context, id model.UserID, p Page) ([]model.Order, bool, error) {
	p = p.normalized()
	m.mu.RLock()
	defer m.mu.RUnlock()

	var mine []model.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if o.DinerID != nil && *o.DinerID == id {
			mine = append(mine, o)
		}
	}

	window, more := paginate(len(mine), p)
	out := make([]model.Order, 0, len(window))
	for _, i := range window {
		o := mine[i]
		o.Items = append([]model.OrderItem(nil), o.Items...)
		out = append(out, o)
	}
	return out, more, nil
}

// franchiseView copies f and fills in its admins. Callers hold m.mu.
func (m *Memory) franchiseView(f *model.Franchise) model.Franchise {
	view := *f
	view.Stores = append([]model.Store{}, f.Stores...)
	view.Admins = []model.FranchiseAdmin{}

	ids := make([]model.UserID, 0)
	for id, u := range m.users {
		for _, r := range u.Roles {
			if r.Role == model.RoleFranchisee && r.ObjectID != nil && *r.ObjectID == f.ID {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		u := m.users[id]
		view.Admins = append(view.Admins, model.FranchiseAdmin{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return view
}

// paginate returns the indexes of the requested window and whether more follow.
func paginate(total int, p Page) ([]int, bool) {
	start := p.offset()
	if start < 0 || start >= total {
		return nil, false
	}
	end := start + p.Limit
	more := end < total
	if end > total {
		end = total
	}
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	return idx, more
}
