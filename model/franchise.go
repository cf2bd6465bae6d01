package model

// FranchiseAdmin references a user administering a franchise.
type FranchiseAdmin struct {
	ID    UserID `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type Franchise struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"size:100;uniqueIndex;not null"`
	NextStoreID uint             `json:"-" gorm:"not null;default:1"`
	Admins      []FranchiseAdmin `json:"admins,omitempty" gorm:"-"`
	Stores      []Store          `json:"stores" gorm:"foreignKey:FranchiseID;constraint:OnDelete:CASCADE"`
}

// HasAdmin reports whether id is listed among the franchise admins.
func (f *Franchise) HasAdmin(id UserID) bool {
	for _, a := range f.Admins {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Store ids are only unique within their franchise.
type Store struct {
	ID           uint    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	FranchiseID  uint    `json:"franchiseId" gorm:"primaryKey;autoIncrement:false"`
	Name         string  `json:"name" gorm:"size:100;not null"`
	TotalRevenue float64 `json:"totalRevenue" gorm:"not null;default:0"`
}

type CreateFranchiseRequest struct {
	Name   string           `json:"name"`
	Admins []FranchiseAdmin `json:"admins"`
}

type CreateStoreRequest struct {
	Name string `json:"name"`
}

type FranchisePage struct {
	Franchises []Franchise `json:"franchises"`
	More       bool        `json:"more"`
}
