package models

// Product is a drink on the board. Price is the live market price and moves
// on every order unless fixed mode is active.
type Product struct {
	ID    uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string  `gorm:"unique;not null"          json:"name"`
	Price float64 `gorm:"not null"                 json:"price"`
}

// Table is a tab that orders accumulate against until it is cleared.
type Table struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

// Order is one ledger line. UnitPrice is the price at the moment the order
// was placed and never changes afterwards, no matter how the live price moves.
type Order struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	TableID   uint    `gorm:"index;not null"            json:"table_id"`
	ProductID uint    `gorm:"not null"                  json:"product_id"`
	UnitPrice float64 `gorm:"not null"                  json:"unit_price"`
	Quantity  uint    `gorm:"not null;check:quantity>0" json:"quantity"`
}

// FixedPriceBackup holds a product's pre-freeze price while fixed mode is
// active. At most one generation of rows exists at a time.
type FixedPriceBackup struct {
	ProductID uint    `gorm:"primaryKey" json:"product_id"`
	Price     float64 `gorm:"not null"   json:"price"`
}

// Setting is a generic key/value row. The pricing engine keeps its
// fixed_mode flag here.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null"   json:"value"`
}

// User is an admin panel account.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}
