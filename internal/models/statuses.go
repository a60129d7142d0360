package models

type UserStatus string
type UserRole string
type JobStatus string
type JobAction string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleWorker UserRole = "worker"
	UserRoleClient UserRole = "client"
	UserRoleAdmin  UserRole = "admin"

	JobStatusPending       JobStatus = "pending"
	JobStatusActive        JobStatus = "active"
	JobStatusInProgress    JobStatus = "in progress"
	JobStatusPendingReview JobStatus = "pending review"
	JobStatusComplete      JobStatus = "complete"

	JobActionAssign   JobAction = "assign"
	JobActionStart    JobAction = "start"
	JobActionFinish   JobAction = "finish"
	JobActionComplete JobAction = "complete"
)

// jobTransitions — таблица допустимых переходов статуса работы.
// Ключ: (текущий статус, действие) -> новый статус.
var jobTransitions = map[JobStatus]map[JobAction]JobStatus{
	JobStatusPending:       {JobActionAssign: JobStatusActive},
	JobStatusActive:        {JobActionStart: JobStatusInProgress},
	JobStatusInProgress:    {JobActionFinish: JobStatusPendingReview},
	JobStatusPendingReview: {JobActionComplete: JobStatusComplete},
}

// NextJobStatus возвращает статус, в который переводит action из current.
// ok == false означает недопустимый переход.
func NextJobStatus(current JobStatus, action JobAction) (JobStatus, bool) {
	actions, ok := jobTransitions[current]
	if !ok {
		return "", false
	}
	next, ok := actions[action]
	return next, ok
}

// ValidJobStatus проверяет принадлежность строки закрытому набору статусов
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusPending, JobStatusActive, JobStatusInProgress,
		JobStatusPendingReview, JobStatusComplete:
		return true
	}
	return false
}
