package models

type Category struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"size:128;not null"`
	Products []Product `gorm:"constraint:OnDelete:CASCADE"`
}

type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:128;not null"`
	Price      int64  `gorm:"not null"`
	CategoryID uint   `gorm:"not null;index"`
}

// Client holds a bcrypt hash in PasswordHash, never the submitted password.
type Client struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:128;not null"`
	Email        string  `gorm:"size:128;not null;uniqueIndex"`
	PasswordHash string  `gorm:"column:password;size:128;not null"`
	Orders       []Order `gorm:"constraint:OnDelete:CASCADE"`
}

type Order struct {
	ID       uint      `gorm:"primaryKey"`
	ClientID uint      `gorm:"not null;index"`
	Client   Client    `gorm:"constraint:OnDelete:CASCADE"`
	Products []Product `gorm:"many2many:order_products;constraint:OnDelete:CASCADE"`
}

// OrderProduct is a row of the order_products join relation.
type OrderProduct struct {
	OrderID   uint `gorm:"primaryKey"`
	ProductID uint `gorm:"primaryKey"`
}

func (OrderProduct) TableName() string {
	return "order_products"
}
