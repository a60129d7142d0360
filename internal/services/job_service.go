package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workhub_backend/internal/config"
	"workhub_backend/internal/email"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/internal/services/payment"
	"workhub_backend/pkg/apperrors"
)

type JobService interface {
	Create(ctx context.Context, posterID uint, req dto.CreateJobRequest) (*dto.JobResponse, error)
	Get(ctx context.Context, id uint) (*dto.JobResponse, error)
	List(ctx context.Context) ([]dto.JobResponse, error)
	// Filter: конъюнкция предикатов равенства; пустой фильтр — ошибка вызова
	Filter(ctx context.Context, filters map[string]any) ([]dto.JobResponse, error)
	// Patch принимает подмножество изменяемых колонок и эхом возвращает
	// только переданные поля, не всю строку
	Patch(ctx context.Context, callerID uint, role models.UserRole, jobID uint, patch dto.JobPatch) (map[string]any, error)
	Remove(ctx context.Context, callerID uint, role models.UserRole, jobID uint) error

	Apply(ctx context.Context, workerID, jobID uint) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, workerID, jobID uint) error
	ListApplications(ctx context.Context, callerID, jobID uint) ([]dto.ApplicationResponse, error)

	Assign(ctx context.Context, posterID, jobID, workerID uint) (*dto.JobResponse, error)
	Start(ctx context.Context, workerID, jobID uint) (*dto.JobResponse, error)
	Finish(ctx context.Context, workerID, jobID uint, req dto.FinishJobRequest) (*dto.JobResponse, error)
	Complete(ctx context.Context, posterID, jobID uint, req dto.CompleteJobRequest) (*dto.CompleteJobResponse, error)
}

type JobServiceImpl struct {
	jobRepo    repositories.JobRepository
	appRepo    repositories.ApplicationRepository
	userRepo   repositories.UserRepository
	reviewRepo repositories.ReviewRepository
	notifRepo  repositories.NotificationRepository
	chat       ChatService
	payouts    PayoutService
	checkout   *payment.CheckoutService
	mailer     email.Provider
	payCfg     config.PaymentConfig
}

func NewJobService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	userRepo repositories.UserRepository,
	reviewRepo repositories.ReviewRepository,
	notifRepo repositories.NotificationRepository,
	chat ChatService,
	payouts PayoutService,
	checkout *payment.CheckoutService,
	mailer email.Provider,
	payCfg config.PaymentConfig,
) JobService {
	return &JobServiceImpl{
		jobRepo:    jobRepo,
		appRepo:    appRepo,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		notifRepo:  notifRepo,
		chat:       chat,
		payouts:    payouts,
		checkout:   checkout,
		mailer:     mailer,
		payCfg:     payCfg,
	}
}

// ---------------- CRUD ----------------

func (s *JobServiceImpl) Create(ctx context.Context, posterID uint, req dto.CreateJobRequest) (*dto.JobResponse, error) {
	hourlyRate := s.payCfg.HourlyRate
	if req.HourlyRate != nil {
		hourlyRate = *req.HourlyRate
	}

	job := &models.Job{
		Title:      req.Title,
		Body:       req.Body,
		Address:    req.Address,
		City:       req.City,
		Tags:       dto.TagsToJSON(req.Tags),
		HourlyRate: hourlyRate,
		Status:     models.JobStatusPending,
		PostedBy:   posterID,
	}

	if err := s.jobRepo.Create(job); err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainJob, "failed to create job", err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "posted_by", posterID)
	resp := dto.FromJob(job)
	return &resp, nil
}

func (s *JobServiceImpl) Get(ctx context.Context, id uint) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		return nil, s.mapJobError(id, err)
	}
	resp := dto.FromJob(job)
	return &resp, nil
}

func (s *JobServiceImpl) List(ctx context.Context) ([]dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindAll()
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainJob, "failed to list jobs", err)
	}
	return s.toResponses(jobs), nil
}

func (s *JobServiceImpl) Filter(ctx context.Context, filters map[string]any) ([]dto.JobResponse, error) {
	if len(filters) == 0 {
		return nil, apperrors.NewBadRequest(apperrors.DomainJob, "at least one filter predicate is required")
	}

	jobs, err := s.jobRepo.Filter(filters)
	if err != nil {
		if errors.Is(err, repositories.ErrUnknownFilterKey) {
			return nil, apperrors.NewBadRequest(apperrors.DomainJob, err.Error())
		}
		return nil, apperrors.NewInternal(apperrors.DomainJob, "failed to filter jobs", err)
	}
	return s.toResponses(jobs), nil
}

func (s *JobServiceImpl) Patch(ctx context.Context, callerID uint, role models.UserRole, jobID uint, patch dto.JobPatch) (map[string]any, error) {
	if len(patch) == 0 {
		return nil, apperrors.NewBadRequest(apperrors.DomainJob, "empty update: at least one field is required")
	}

	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, s.mapJobError(jobID, err)
	}
	if job.PostedBy != callerID && role != models.UserRoleAdmin {
		return nil, apperrors.NewForbidden(apperrors.DomainJob, "only the poster can update this job")
	}

	fields := make(map[string]any, len(patch))
	for column, value := range patch {
		if !s.jobRepo.MutableColumn(column) {
			return nil, apperrors.NewBadRequest(apperrors.DomainJob, fmt.Sprintf("column %q is not updatable", column))
		}
		if column == "tags" {
			tags, ok := toStringSlice(value)
			if !ok {
				return nil, apperrors.NewBadRequest(apperrors.DomainJob, "tags must be an array of strings")
			}
			fields[column] = dto.TagsToJSON(tags)
			continue
		}
		fields[column] = value
	}

	if err := s.jobRepo.UpdateFields(jobID, fields); err != nil {
		return nil, s.mapJobError(jobID, err)
	}

	// Контракт частичного обновления: эхо только переданных полей
	echo := make(map[string]any, len(patch))
	for column, value := range patch {
		echo[column] = value
	}
	return echo, nil
}

func (s *JobServiceImpl) Remove(ctx context.Context, callerID uint, role models.UserRole, jobID uint) error {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return s.mapJobError(jobID, err)
	}
	if job.PostedBy != callerID && role != models.UserRoleAdmin {
		return apperrors.NewForbidden(apperrors.DomainJob, "only the poster can remove this job")
	}
	if job.Status == models.JobStatusComplete {
		return apperrors.NewConflict(apperrors.DomainJob, "completed jobs cannot be removed")
	}

	if err := s.jobRepo.Delete(jobID); err != nil {
		return s.mapJobError(jobID, err)
	}
	logger.CtxInfo(ctx, "job removed", "job_id", jobID, "removed_by", callerID)
	return nil
}

// ---------------- Applications ----------------

func (s *JobServiceImpl) Apply(ctx context.Context, workerID, jobID uint) (*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, s.mapJobError(jobID, err)
	}
	if job.Status != models.JobStatusPending {
		return nil, apperrors.NewInvalidTransition(apperrors.DomainApplication, "applications are accepted only while the job is pending")
	}
	if job.PostedBy == workerID {
		return nil, apperrors.NewBadRequest(apperrors.DomainApplication, "cannot apply to your own job")
	}

	app := &models.Application{AppliedBy: workerID, AppliedTo: jobID}
	if err := s.appRepo.Create(app); err != nil {
		if errors.Is(err, repositories.ErrAlreadyApplied) {
			return nil, apperrors.NewConflict(apperrors.DomainApplication, "already applied to this job")
		}
		return nil, apperrors.NewInternal(apperrors.DomainApplication, "failed to create application", err)
	}

	resp := dto.FromApplication(app)
	return &resp, nil
}

func (s *JobServiceImpl) Withdraw(ctx context.Context, workerID, jobID uint) error {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return s.mapJobError(jobID, err)
	}
	if job.Status != models.JobStatusPending {
		return apperrors.NewInvalidTransition(apperrors.DomainApplication, "applications can be withdrawn only while the job is pending")
	}

	if err := s.appRepo.Delete(workerID, jobID); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.NewNotFound(apperrors.DomainApplication, "application not found")
		}
		return apperrors.NewInternal(apperrors.DomainApplication, "failed to withdraw application", err)
	}
	return nil
}

func (s *JobServiceImpl) ListApplications(ctx context.Context, callerID, jobID uint) ([]dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, s.mapJobError(jobID, err)
	}
	if job.PostedBy != callerID {
		return nil, apperrors.NewForbidden(apperrors.DomainApplication, "only the poster can list applications")
	}

	apps, err := s.appRepo.ListForJob(jobID)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainApplication, "failed to list applications", err)
	}
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, dto.FromApplication(&apps[i]))
	}
	return out, nil
}

// ---------------- Lifecycle transitions ----------------

// Assign переводит pending -> active, закрепляет исполнителя и отправляет
// ему авто-сообщение с названием и адресом работы.
func (s *JobServiceImpl) Assign(ctx context.Context, posterID, jobID, workerID uint) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, s.mapJobError(jobID, err)
	}
	if job.PostedBy != posterID {
		return nil, apperrors.NewForbidden(apperrors.DomainJob, "only the poster can assign a worker")
	}

	next, ok := models.NextJobStatus(job.Status, models.JobActionAssign)
	if !ok {
		return nil, apperrors.NewInvalidTransition(apperrors.DomainJob,
			fmt.Sprintf("cannot assign a worker while the job is %q", job.Status))
	}

	applied, err := s.appRepo.Exists(workerID, jobID)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainJob, "failed to check application", err)
	}
	if !applied {
		return nil, apperrors.NewBadRequest(apperrors.DomainJob, "selected worker has not applied to this job")
	}

	err = s.jobRepo.Transition(jobID, job.Status, map[string]any{
		"status":      next,
		"assigned_to": workerID,
	})
	if err != nil {
		return nil, s.mapTransitionError(jobID, err)
	}

	// Авто-сообщение постер -> исполнитель через движок переписок: та же
	// деривация ключа и идемпотентное создание переписки, что и у обычных
	// сообщений.
	autoBody := fmt.Sprintf("You have been assigned to %q at %s.", job.Title, job.Address)
	if _, err := s.chat.CreateMessage(ctx, posterID, dto.CreateMessageRequest{
		Body:   autoBody,
		SentTo: workerID,
		JobID:  jobID,
	}); err != nil {
		logger.CtxWarn(ctx, "failed to send assignment auto-message", "job_id", jobID, "error", err.Error())
	}

	s.notify(ctx, workerID, models.NotificationTypeJobAssigned, "Job assigned", autoBody)
	s.sendMail(ctx, workerID, email.TemplateJobAssigned, email.TemplateData{
		"JobTitle": job.Title,
		"Address":  job.Address,
	})

	logger.CtxInfo(ctx, "job assigned", "job_id", jobID, "worker_id", workerID)
	return s.Get(ctx, jobID)
}

// Start переводит active -> "in progress" и фиксирует начало работы
func (s *JobServiceImpl) Start(ctx context.Context, workerID, jobID uint) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, s.mapJobError(jobID, err)
	}
	if job.AssignedTo == nil || *job.AssignedTo != workerID {
		return nil, apperrors.NewForbidden(apperrors.DomainJob, "only the assigned worker can start work")
	}

	next, ok := models.NextJobStatus(job.Status, models.JobActionStart)
	if !ok {
		return nil, apperrors.NewInvalidTransition(apperrors.DomainJob,
			fmt.Sprintf("cannot start work while the job is %q", job.Status))
	}
	if job.StartTime != nil {
		return nil, apperrors.NewConflict(apperrors.DomainJob, "work has already been started")
	}

	err = s.jobRepo.Transition(jobID, job.Status, map[string]any{
		"status":     next,
		"start_time": time.Now(),
	})
	if err != nil {
		return nil, s.mapTransitionError(jobID, err)
	}

	s.notify(ctx, job.PostedBy, models.NotificationTypeJobStatus, "Work started",
		fmt.Sprintf("Work on %q has started.", job.Title))

	return s.Get(ctx, jobID)
}

// Finish переводит "in progress" -> "pending review" и начисляет оплату:
// payment_due = прошедшие часы (дробные, без округления) * почасовая ставка.
func (s *JobServiceImpl) Finish(ctx context.Context, workerID, jobID uint, req dto.FinishJobRequest) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, s.mapJobError(jobID, err)
	}
	if job.AssignedTo == nil || *job.AssignedTo != workerID {
		return nil, apperrors.NewForbidden(apperrors.DomainJob, "only the assigned worker can finish work")
	}

	next, ok := models.NextJobStatus(job.Status, models.JobActionFinish)
	if !ok {
		return nil, apperrors.NewInvalidTransition(apperrors.DomainJob,
			fmt.Sprintf("cannot finish work while the job is %q", job.Status))
	}
	if job.StartTime == nil {
		return nil, apperrors.NewConflict(apperrors.DomainJob, "work has not been started")
	}

	endTime := time.Now()
	paymentDue := ComputePayment(*job.StartTime, endTime, job.HourlyRate)

	err = s.jobRepo.Transition(jobID, job.Status, map[string]any{
		"status":          next,
		"end_time":        endTime,
		"payment_due":     paymentDue,
		"after_image_url": req.AfterImageURL,
	})
	if err != nil {
		return nil, s.mapTransitionError(jobID, err)
	}

	s.notify(ctx, job.PostedBy, models.NotificationTypeJobStatus, "Work finished",
		fmt.Sprintf("Work on %q is finished. Payment due: %.2f.", job.Title, paymentDue))
	s.sendMail(ctx, job.PostedBy, email.TemplateWorkFinished, email.TemplateData{
		"JobTitle":   job.Title,
		"PaymentDue": fmt.Sprintf("%.2f", paymentDue),
	})

	logger.CtxInfo(ctx, "job finished", "job_id", jobID, "payment_due", paymentDue)
	return s.Get(ctx, jobID)
}

// Complete переводит "pending review" -> complete (терминальный статус),
// опционально создает отзыв исполнителю и запись о выплате.
func (s *JobServiceImpl) Complete(ctx context.Context, posterID, jobID uint, req dto.CompleteJobRequest) (*dto.CompleteJobResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, s.mapJobError(jobID, err)
	}
	if job.PostedBy != posterID {
		return nil, apperrors.NewForbidden(apperrors.DomainJob, "only the poster can complete this job")
	}

	next, ok := models.NextJobStatus(job.Status, models.JobActionComplete)
	if !ok {
		return nil, apperrors.NewInvalidTransition(apperrors.DomainJob,
			fmt.Sprintf("cannot complete the job while it is %q", job.Status))
	}

	err = s.jobRepo.Transition(jobID, job.Status, map[string]any{"status": next})
	if err != nil {
		return nil, s.mapTransitionError(jobID, err)
	}

	result := &dto.CompleteJobResponse{}

	if req.Review != nil && job.AssignedTo != nil {
		review := &models.Review{
			Title:       req.Review.Title,
			Body:        req.Review.Body,
			Stars:       req.Review.Stars,
			ReviewedBy:  posterID,
			ReviewedFor: *job.AssignedTo,
			JobID:       &job.ID,
		}
		if err := s.reviewRepo.Create(review); err != nil {
			return nil, apperrors.NewInternal(apperrors.DomainReview, "failed to create review", err)
		}
		reviewResp := dto.FromReview(review)
		result.Review = &reviewResp
		s.notify(ctx, *job.AssignedTo, models.NotificationTypeReviewCreated, "New review",
			fmt.Sprintf("You received a review for %q.", job.Title))
	}

	if job.PaymentDue != nil && job.AssignedTo != nil {
		tip := 0.0
		if req.Tip != nil {
			tip = *req.Tip
		}
		payoutResp, err := s.payouts.CreateForJob(ctx, posterID, *job.AssignedTo, job.ID, *job.PaymentDue, tip)
		if err != nil {
			return nil, err
		}
		if s.checkout != nil {
			url, err := s.checkout.PaymentURL(payoutResp.ID, payoutResp.Total, fmt.Sprintf("Payment for job #%d", job.ID))
			if err != nil {
				logger.CtxWarn(ctx, "failed to generate checkout url", "payout_id", payoutResp.ID, "error", err.Error())
			} else {
				payoutResp.CheckoutURL = url
			}
		}
		result.Payout = payoutResp
	}

	jobResp, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	result.Job = *jobResp

	logger.CtxInfo(ctx, "job completed", "job_id", jobID)
	return result, nil
}

// ---------------- Helpers ----------------

// ComputePayment считает оплату за работу: дробные часы * ставка, без округления
func ComputePayment(start, end time.Time, hourlyRate float64) float64 {
	return end.Sub(start).Hours() * hourlyRate
}

func (s *JobServiceImpl) toResponses(jobs []models.Job) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, dto.FromJob(&jobs[i]))
	}
	return out
}

func (s *JobServiceImpl) mapJobError(jobID uint, err error) error {
	if errors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.NewNotFound(apperrors.DomainJob, fmt.Sprintf("no job found with id %d", jobID))
	}
	return apperrors.NewInternal(apperrors.DomainJob, "job storage error", err)
}

func (s *JobServiceImpl) mapTransitionError(jobID uint, err error) error {
	if errors.Is(err, repositories.ErrJobStatusChanged) {
		return apperrors.NewConflict(apperrors.DomainJob, "job status changed concurrently, retry")
	}
	return s.mapJobError(jobID, err)
}

func (s *JobServiceImpl) notify(ctx context.Context, userID uint, kind, title, body string) {
	n := &models.Notification{UserID: userID, Type: kind, Title: title, Body: body}
	if err := s.notifRepo.Create(n); err != nil {
		logger.CtxWarn(ctx, "failed to create notification", "user_id", userID, "error", err.Error())
	}
}

func (s *JobServiceImpl) sendMail(ctx context.Context, userID uint, template string, data email.TemplateData) {
	if s.mailer == nil {
		return
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.CtxWarn(ctx, "failed to resolve email recipient", "user_id", userID, "error", err.Error())
		return
	}
	data["Name"] = user.Name
	if err := s.mailer.SendTemplate(user.Email, template, data); err != nil {
		logger.CtxWarn(ctx, "failed to send email", "user_id", userID, "error", err.Error())
	}
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
