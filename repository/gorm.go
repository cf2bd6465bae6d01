package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jwtpizza/model"
)

// Gorm is the SQL Repository. The *gorm.DB should be opened with TranslateError so
// unique violations surface as gorm.ErrDuplicatedKey.
type Gorm struct {
	db *gorm.DB
}

var _ Repository = (*Gorm)(nil)

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Models lists the tables managed by the repository, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.RoleAssignment{},
		&model.Franchise{},
		&model.Store{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func (r *Gorm) CreateUser(ctx context.Context, u *model.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *Gorm) UserByID(ctx context.Context, id model.UserID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", uint(id)).First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Gorm) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Gorm) UpdateUser(ctx context.Context, u *model.User) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", uint(u.ID)).Updates(map[string]interface{}{
		"name":     u.Name,
		"email":    u.Email,
		"password": u.Password,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Gorm) DeleteUser(ctx context.Context, id model.UserID) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("user_id = ?", uint(id)).Delete(&model.RoleAssignment{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete roles: %w", err)
	}
	res := tx.Where("id = ?", uint(id)).Delete(&model.User{})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return ErrNotFound
	}
	return tx.Commit().Error
}

func (r *Gorm) ListUsers(ctx context.Context, p Page) ([]model.User, bool, error) {
	p = p.normalized()
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("LOWER(name) LIKE ?", likePattern(p.Name)).
		Order("id").
		Offset(p.offset()).
		Limit(p.Limit + 1).
		Find(&users).Error
	if err != nil {
		return nil, false, err
	}
	more := len(users) > p.Limit
	if more {
		users = users[:p.Limit]
	}
	return users, more, nil
}

func (r *Gorm) Menu(ctx context.Context) ([]model.MenuItem, error) {
	menu := []model.MenuItem{}
	if err := r.db.WithContext(ctx).Order("id").Find(&menu).Error; err != nil {
		return nil, err
	}
	return menu, nil
}

func (r *Gorm) AddMenuItems(ctx context.Context, items []model.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *Gorm) Franchises(ctx context.Context, p Page) ([]model.Franchise, bool, error) {
	p = p.normalized()
	db := r.db.WithContext(ctx)

	var franchises []model.Franchise
	err := db.
		Preload("Stores", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("LOWER(name) LIKE ?", likePattern(p.Name)).
		Order("id").
		Offset(p.offset()).
		Limit(p.Limit + 1).
		Find(&franchises).Error
	if err != nil {
		return nil, false, err
	}
	more := len(franchises) > p.Limit
	if more {
		franchises = franchises[:p.Limit]
	}
	if err := attachAdmins(db, franchises); err != nil {
		return nil, false, err
	}
	return franchises, more, nil
}

func (r *Gorm) FranchisesForAdmin(ctx context.Context, id model.UserID) ([]model.Franchise, error) {
	db := r.db.WithContext(ctx)

	var ids []uint
	err := db.Model(&model.RoleAssignment{}).
		Where("user_id = ? AND role = ? AND object_id IS NOT NULL", uint(id), model.RoleFranchisee).
		Pluck("object_id", &ids).Error
	if err != nil {
		return nil, err
	}
	franchises := []model.Franchise{}
	if len(ids) == 0 {
		return franchises, nil
	}
	err = db.
		Preload("Stores", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id IN ?", ids).
		Order("id").
		Find(&franchises).Error
	if err != nil {
		return nil, err
	}
	if err := attachAdmins(db, franchises); err != nil {
		return nil, err
	}
	return franchises, nil
}

func (r *Gorm) Franchise(ctx context.Context, id uint) (*model.Franchise, error) {
	db := r.db.WithContext(ctx)

	var f model.Franchise
	err := db.
		Preload("Stores", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ?", id).
		First(&f).Error
	if err != nil {
		return nil, translate(err)
	}
	list := []model.Franchise{f}
	if err := attachAdmins(db, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *Gorm) CreateFranchise(ctx context.Context, f *model.Franchise, admins []model.UserID) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	f.NextStoreID = 1
	if err := tx.Omit(clause.Associations).Create(f).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}

	for _, id := range admins {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", uint(id)).Count(&count).Error; err != nil {
			tx.Rollback()
			return err
		}
		if count == 0 {
			tx.Rollback()
			return ErrNotFound
		}
		objectID := f.ID
		role := model.RoleAssignment{UserID: id, Role: model.RoleFranchisee, ObjectID: &objectID}
		if err := tx.Create(&role).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("grant franchisee role: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	created, err := r.Franchise(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *created
	return nil
}

func (r *Gorm) DeleteFranchise(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("franchise_id = ?", id).Delete(&model.Store{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete stores: %w", err)
	}
	if err := tx.Where("role = ? AND object_id = ?", model.RoleFranchisee, id).Delete(&model.RoleAssignment{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("revoke franchisee roles: %w", err)
	}
	res := tx.Where("id = ?", id).Delete(&model.Franchise{})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("delete franchise: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return ErrNotFound
	}
	return tx.Commit().Error
}

func (r *Gorm) CreateStore(ctx context.Context, franchiseID uint, name string) (*model.Store, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var f model.Franchise
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", franchiseID).First(&f).Error
	if err != nil {
		tx.Rollback()
		return nil, translate(err)
	}

	store := model.Store{ID: f.NextStoreID, FranchiseID: f.ID, Name: name}
	if err := tx.Create(&store).Error; err != nil {
		tx.Rollback()
		return nil, translate(err)
	}
	if err := tx.Model(&model.Franchise{}).Where("id = ?", f.ID).Update("next_store_id", f.NextStoreID+1).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *Gorm) DeleteStore(ctx context.Context, franchiseID, storeID uint) error {
	res := r.db.WithContext(ctx).Where("franchise_id = ? AND id = ?", franchiseID, storeID).Delete(&model.Store{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Gorm) CreateOrder(ctx context.Context, o *model.Order) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var store model.Store
	if err := tx.Where("franchise_id = ? AND id = ?", o.FranchiseID, o.StoreID).First(&store).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}
	if err := tx.Create(o).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("create order: %w", err)
	}
	err := tx.Model(&model.Store{}).
		Where("franchise_id = ? AND id = ?", o.FranchiseID, o.StoreID).
		UpdateColumn("total_revenue", gorm.Expr("total_revenue + ?", o.Total())).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("update store revenue: %w", err)
	}
	return tx.Commit().Error
}

func (r *Gorm) OrdersForDiner(ctx context.Context, id model.UserID, p Page) ([]model.Order, bool, error) {
	p = p.normalized()
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("diner_id = ?", uint(id)).
		Order("id DESC").
		Offset(p.offset()).
		Limit(p.Limit + 1).
		Find(&orders).Error
	if err != nil {
		return nil, false, err
	}
	more := len(orders) > p.Limit
	if more {
		orders = orders[:p.Limit]
	}
	return orders, more, nil
}

type adminRow struct {
	ObjectID uint
	ID       uint
	Name     string
	Email    string
}

// attachAdmins fills Admins from the franchisee roles scoped to each franchise.
func attachAdmins(db *gorm.DB, franchises []model.Franchise) error {
	if len(franchises) == 0 {
		return nil
	}
	ids := make([]uint, len(franchises))
	for i, f := range franchises {
		ids[i] = f.ID
	}

	var rows []adminRow
	err := db.Table("user_roles").
		Select("user_roles.object_id, users.id, users.name, users.email").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.role = ? AND user_roles.object_id IN ?", model.RoleFranchisee, ids).
		Order("users.id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("load franchise admins: %w", err)
	}

	byFranchise := make(map[uint][]model.FranchiseAdmin, len(franchises))
	for _, row := range rows {
		byFranchise[row.ObjectID] = append(byFranchise[row.ObjectID], model.FranchiseAdmin{
			ID:    model.UserID(row.ID),
			Name:  row.Name,
			Email: row.Email,
		})
	}
	for i := range franchises {
		admins := byFranchise[franchises[i].ID]
		if admins == nil {
			admins = []model.FranchiseAdmin{}
		}
		franchises[i].Admins = admins
		if franchises[i].Stores == nil {
			franchises[i].Stores = []model.Store{}
		}
	}
	return nil
}
