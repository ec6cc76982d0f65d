package models

// Tag is a user-owned label attached to recipes. (UserID, Name) is the
// natural key used for reconciliation; the database does not enforce it.
type Tag struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"-"`
	Name   string `gorm:"not null" json:"name"`
}

// Ingredient has the same shape and ownership semantics as Tag but is a
// distinct entity type with its own table and recipe links. The table and
// wire names keep the original API spelling.
type Ingredient struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"-"`
	Name   string `gorm:"not null" json:"name"`
}

// TableName preserves the historical spelling used by API clients.
func (Ingredient) TableName() string {
	return "ingrediants"
}
