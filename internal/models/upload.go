package models

// Upload хранит метаданные загруженного файла; байты лежат в Storage
type Upload struct {
	BaseModel
	UserID       uint   `gorm:"not null;index"`
	Key          string `gorm:"not null;uniqueIndex"`
	FileName     string `gorm:"not null"`
	ContentType  string
	Size         int64
	URL          string
	ThumbnailKey string
	ThumbnailURL string
}
