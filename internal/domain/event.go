package domain

import "time"

// Event is a dated earnings-call record owned by exactly one company.
type Event struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   int64     `gorm:"column:keydevid;uniqueIndex;not null" json:"keydevid"`
	CompanyID int64     `gorm:"column:companyid;index;not null" json:"companyid"`
	Title     string    `gorm:"column:title;type:text;not null" json:"title"`
	Quarter   int       `gorm:"column:quarter" json:"quarter"`
	Year      int       `gorm:"column:year" json:"year"`
	Time      time.Time `gorm:"column:datetime_utc" json:"datetime_utc"`
}

func (Event) TableName() string { return "event" }

// SetTimeUTC stores the instant in UTC and derives the year/quarter columns.
func (e *Event) SetTimeUTC(t time.Time) {
	u := t.UTC()
	e.Time = u
	e.Year = u.Year()
	e.Quarter = int(u.Month()-1)/3 + 1
}
