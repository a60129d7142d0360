package handlers

import (
	"strconv"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/filter", h.FilterJobs)
		jobs.GET("/:id", h.GetJob)
	}

	protected := r.Group("/jobs")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/create", middleware.RequireRoles(models.UserRoleClient, models.UserRoleAdmin), h.CreateJob)
		protected.PATCH("/update/:id", h.UpdateJob)
		protected.DELETE("/remove/:id", h.RemoveJob)

		protected.POST("/:id/apply", middleware.RequireRoles(models.UserRoleWorker), h.Apply)
		protected.DELETE("/:id/apply", middleware.RequireRoles(models.UserRoleWorker), h.Withdraw)
		protected.GET("/:id/applications", h.ListApplications)

		protected.POST("/:id/assign", h.AssignJob)
		protected.POST("/:id/start", h.StartJob)
		protected.POST("/:id/finish", h.FinishJob)
		protected.POST("/:id/complete", h.CompleteJob)
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobService.List(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, jobs)
}

// jobFilterIntKeys — фильтры, значения которых должны быть числовыми
var jobFilterIntKeys = map[string]struct{}{
	"posted_by":   {},
	"assigned_to": {},
}

// FilterJobs собирает query-параметры в набор предикатов равенства.
// Запрос без единого фильтра считается ошибкой клиента.
func (h *JobHandler) FilterJobs(c *gin.Context) {
	filters := make(map[string]any)

	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 || values[0] == "" {
			continue
		}

		if _, ok := jobFilterIntKeys[key]; ok {
			id, err := strconv.ParseUint(values[0], 10, 64)
			if err != nil {
				h.HandleServiceError(c, apperrors.NewBadRequest(apperrors.DomainJob, "filter "+key+" must be numeric"))
				return
			}
			filters[key] = uint(id)
			continue
		}

		filters[key] = values[0]
	}

	jobs, err := h.jobService.Filter(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, job)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, job)
}

// UpdateJob применяет частичное обновление и возвращает только те поля,
// которые были в запросе.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	var patch dto.JobPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequest(apperrors.DomainJob, "invalid request body").WithError(err))
		return
	}

	updated, err := h.jobService.Patch(c.Request.Context(), userID, middleware.GetRole(c), id, patch)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, updated)
}

func (h *JobHandler) RemoveJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.Remove(c.Request.Context(), userID, middleware.GetRole(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "job removed"})
}

func (h *JobHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	app, err := h.jobService.Apply(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, app)
}

func (h *JobHandler) Withdraw(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.Withdraw(c.Request.Context(), userID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "application withdrawn"})
}

func (h *JobHandler) ListApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	apps, err := h.jobService.ListApplications(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, apps)
}

func (h *JobHandler) AssignJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.AssignRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Assign(c.Request.Context(), userID, id, req.WorkerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, job)
}

func (h *JobHandler) StartJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Start(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, job)
}

func (h *JobHandler) FinishJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.FinishJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Finish(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, job)
}

func (h *JobHandler) CompleteJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.CompleteJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.jobService.Complete(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, result)
}
