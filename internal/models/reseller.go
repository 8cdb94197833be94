package models

// Reseller maps to the `resellers` table.
// Primary key is the Telegram user ID stored as string.
type Reseller struct {
	ID      string `gorm:"column:id;primaryKey;size:64" json:"id"`
	Plan    string `gorm:"column:plan;size:16;not null" json:"plan"`
	Started string `gorm:"column:started;size:10;not null" json:"started"`
	Expires string `gorm:"column:expires;size:10;not null" json:"expires"`
	Contact string `gorm:"column:contact;size:100" json:"contact"`
}

func (Reseller) TableName() string {
	return "resellers"
}
