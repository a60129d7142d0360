package repositories

import (
	"errors"
	"fmt"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrJobStatusChanged = errors.New("job status changed concurrently")
	ErrUnknownFilterKey = errors.New("unknown filter key")
)

// jobFilterColumns — колонки, по которым разрешена фильтрация
var jobFilterColumns = map[string]struct{}{
	"status":      {},
	"posted_by":   {},
	"assigned_to": {},
	"city":        {},
	"title":       {},
	"address":     {},
}

// jobMutableColumns — колонки, доступные для частичного обновления
var jobMutableColumns = map[string]struct{}{
	"title":            {},
	"body":             {},
	"address":          {},
	"city":             {},
	"tags":             {},
	"hourly_rate":      {},
	"before_image_url": {},
	"after_image_url":  {},
}

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uint) (*models.Job, error)
	FindAll() ([]models.Job, error)
	Filter(filters map[string]any) ([]models.Job, error)
	UpdateFields(id uint, fields map[string]any) error
	Transition(id uint, expected models.JobStatus, fields map[string]any) error
	Delete(id uint) error
	MutableColumn(name string) bool
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.Preload("Poster").Preload("Assignee").First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindAll() ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// Filter выполняет выборку по конъюнкции предикатов равенства.
// Неизвестный ключ -> ошибка, а не тихое игнорирование.
func (r *JobRepositoryImpl) Filter(filters map[string]any) ([]models.Job, error) {
	query := r.db.Model(&models.Job{})
	for column, value := range filters {
		if _, ok := jobFilterColumns[column]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFilterKey, column)
		}
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}
	var jobs []models.Job
	err := query.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// UpdateFields применяет частичное обновление; ключи уже отвалидированы сервисом
func (r *JobRepositoryImpl) UpdateFields(id uint, fields map[string]any) error {
	result := r.db.Model(&models.Job{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Transition — compare-and-set перехода статуса: обновление проходит только
// если статус в базе все еще равен expected. fields должен содержать "status".
func (r *JobRepositoryImpl) Transition(id uint, expected models.JobStatus, fields map[string]any) error {
	result := r.db.Model(&models.Job{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Отличаем отсутствующую работу от проигранной гонки за статус
		var count int64
		if err := r.db.Model(&models.Job{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrJobNotFound
		}
		return ErrJobStatusChanged
	}
	return nil
}

// Delete удаляет работу вместе с заявками на нее (одной транзакцией)
func (r *JobRepositoryImpl) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Application{}, "applied_to = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Job{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrJobNotFound
		}
		return nil
	})
}

func (r *JobRepositoryImpl) MutableColumn(name string) bool {
	_, ok := jobMutableColumns[name]
	return ok
}
