package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextJobStatus(t *testing.T) {
	legal := []struct {
		current JobStatus
		action  JobAction
		next    JobStatus
	}{
		{JobStatusPending, JobActionAssign, JobStatusActive},
		{JobStatusActive, JobActionStart, JobStatusInProgress},
		{JobStatusInProgress, JobActionFinish, JobStatusPendingReview},
		{JobStatusPendingReview, JobActionComplete, JobStatusComplete},
	}

	for _, tt := range legal {
		next, ok := NextJobStatus(tt.current, tt.action)
		assert.True(t, ok, "%s + %s", tt.current, tt.action)
		assert.Equal(t, tt.next, next)
	}
}

func TestNextJobStatusRejectsIllegalTransitions(t *testing.T) {
	statuses := []JobStatus{
		JobStatusPending, JobStatusActive, JobStatusInProgress,
		JobStatusPendingReview, JobStatusComplete,
	}
	actions := []JobAction{
		JobActionAssign, JobActionStart, JobActionFinish, JobActionComplete,
	}

	legalCount := 0
	for _, status := range statuses {
		for _, action := range actions {
			if _, ok := NextJobStatus(status, action); ok {
				legalCount++
			}
		}
	}
	// Ровно четыре разрешенных перехода, все остальное запрещено
	assert.Equal(t, 4, legalCount)

	_, ok := NextJobStatus(JobStatusComplete, JobActionAssign)
	assert.False(t, ok, "завершенная работа не переназначается")

	_, ok = NextJobStatus(JobStatusPending, JobActionStart)
	assert.False(t, ok, "нельзя начать работу без назначения")

	_, ok = NextJobStatus("garbage", JobActionAssign)
	assert.False(t, ok)
}

func TestValidJobStatus(t *testing.T) {
	assert.True(t, ValidJobStatus(JobStatusInProgress))
	assert.True(t, ValidJobStatus(JobStatusPendingReview))
	assert.False(t, ValidJobStatus("in_progress"))
	assert.False(t, ValidJobStatus(""))
}
