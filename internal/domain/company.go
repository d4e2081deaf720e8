package domain

// Company is one upstream business entity. Rows are materialized by an
// earlier relational ingest and are read-only to the sync pipeline.
type Company struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyID int64  `gorm:"column:companyid;uniqueIndex;not null" json:"companyid"`
	Name      string `gorm:"column:companyname;type:text;not null" json:"companyname"`
	Symbol    string `gorm:"column:symbol;type:text" json:"symbol"`
	Country   string `gorm:"column:country;type:text" json:"country"`
	Industry  string `gorm:"column:industry;type:text" json:"industry"`
}

func (Company) TableName() string { return "company" }
