package models

// Review is immutable after creation. Stars allow fractional values in [1, 5].
type Review struct {
	BaseModel
	Title       string
	Body        string  `gorm:"type:text"`
	Stars       float64 `gorm:"type:numeric(2,1);not null;check:stars >= 1 AND stars <= 5"`
	ReviewedBy  uint    `gorm:"not null;index"`
	ReviewedFor uint    `gorm:"not null;index"`
	JobID       *uint   `gorm:"index"`

	// Relations
	Reviewer User `gorm:"foreignKey:ReviewedBy"`
	Reviewee User `gorm:"foreignKey:ReviewedFor"`
	Job      *Job `gorm:"foreignKey:JobID"`
}
