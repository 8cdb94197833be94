package models

// Client maps to the `clients` table.
type Client struct {
	Slug       string `gorm:"column:slug;primaryKey;size:64" json:"slug"`
	OwnerID    int64  `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Username   string `gorm:"column:username;size:100" json:"username"`
	ResellerID string `gorm:"column:reseller_id;size:64;not null;index" json:"reseller_id"`
	Plan       string `gorm:"column:plan;size:32;not null" json:"plan"`
	Expires    string `gorm:"column:expires;size:10;not null;index" json:"expires"`
	Created    string `gorm:"column:created;size:32;not null" json:"created"`
	Workdir    string `gorm:"column:workdir;size:500;not null" json:"workdir"`
	SvcStatus  string `gorm:"column:svc_status;size:16;not null;default:stopped" json:"svc_status"`
}

func (Client) TableName() string {
	return "clients"
}
