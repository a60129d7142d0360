package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job lives through the lifecycle
// pending -> active -> in progress -> pending review -> complete.
// AssignedTo stays null while pending; StartTime appears at "in progress";
// EndTime and PaymentDue appear at "pending review".
type Job struct {
	BaseModel
	Title          string         `gorm:"not null"`
	Body           string         `gorm:"type:text"`
	Address        string
	City           string
	Tags           datatypes.JSON `gorm:"type:jsonb"`
	HourlyRate     float64        `gorm:"not null"`
	Status         JobStatus      `gorm:"type:varchar(20);default:'pending';index"`
	PostedBy       uint           `gorm:"not null;index"`
	AssignedTo     *uint          `gorm:"index"`
	StartTime      *time.Time
	EndTime        *time.Time
	PaymentDue     *float64
	BeforeImageURL *string
	AfterImageURL  *string

	// Relations
	Poster       User          `gorm:"foreignKey:PostedBy"`
	Assignee     *User         `gorm:"foreignKey:AssignedTo"`
	Applications []Application `gorm:"foreignKey:AppliedTo"`
}

// Application is the (worker, job) join. The composite unique index makes a
// repeat application a conflict rather than a second row.
type Application struct {
	BaseModel
	AppliedBy uint `gorm:"not null;uniqueIndex:idx_applications_pair"`
	AppliedTo uint `gorm:"not null;uniqueIndex:idx_applications_pair"`

	// Relations
	Applicant User `gorm:"foreignKey:AppliedBy"`
	Job       Job  `gorm:"foreignKey:AppliedTo"`
}
