package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectAggregator_SkipsMissingAndJoinsFailures(t *testing.T) {
	repo := new(MockProjectRepository)
	repo.On("RecomputeProjectHours", mock.Anything, "p1", testNow).
		Return(&domain.ProjectHours{TotalHours: hours("8"), ApprovedHours: hours("4")}, nil).Once()
	repo.On("RecomputeProjectHours", mock.Anything, "p2", testNow).Return(nil, apperrors.ErrNotFound).Once()
	repo.On("RecomputeProjectHours", mock.Anything, "p3", testNow).Return(nil, errors.New("deadlock detected")).Once()

	agg := services.NewProjectAggregatorService(repo, services.WithClock(fixedClock))
	err := agg.RecomputeProjectHours(context.Background(), "p3", "p1", "p2", "p1", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "project p3")
	assert.NotContains(t, err.Error(), "p2")
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "RecomputeProjectHours", 3)
}

func TestProjectAggregator_NoProjects(t *testing.T) {
	repo := new(MockProjectRepository)
	agg := services.NewProjectAggregatorService(repo)

	assert.NoError(t, agg.RecomputeProjectHours(context.Background()))
	repo.AssertNotCalled(t, "RecomputeProjectHours", mock.Anything, mock.Anything, mock.Anything)
}

func shutdownQueue(t *testing.T, q *services.AggregationQueue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))
}

func TestAggregationQueue_RetriesUntilSuccess(t *testing.T) {
	agg := new(MockAggregator)
	agg.On("RecomputeProjectHours", mock.Anything, []string{"p1"}).Return(errors.New("serialization failure")).Once()
	agg.On("RecomputeProjectHours", mock.Anything, []string{"p1"}).Return(nil).Once()

	q := services.NewAggregationQueue(agg, services.AggregationQueueConfig{
		Workers: 1, QueueSize: 4, MaxAttempts: 3, RetryDelay: time.Millisecond,
	})
	q.Start(context.Background())
	q.Enqueue(context.Background(), "p1", "p1", "")
	shutdownQueue(t, q)

	agg.AssertExpectations(t)
	agg.AssertNumberOfCalls(t, "RecomputeProjectHours", 2)
}

func TestAggregationQueue_GivesUpAfterMaxAttempts(t *testing.T) {
	agg := new(MockAggregator)
	agg.On("RecomputeProjectHours", mock.Anything, []string{"p1"}).Return(errors.New("down"))

	q := services.NewAggregationQueue(agg, services.AggregationQueueConfig{
		Workers: 2, QueueSize: 4, MaxAttempts: 2, RetryDelay: time.Millisecond,
	})
	q.Start(context.Background())
	q.Enqueue(context.Background(), "p1")
	shutdownQueue(t, q)

	agg.AssertNumberOfCalls(t, "RecomputeProjectHours", 2)
}

func TestAggregationQueue_DropsWhenFull(t *testing.T) {
	agg := new(MockAggregator)
	agg.On("RecomputeProjectHours", mock.Anything, []string{"p1"}).Return(nil).Once()

	q := services.NewAggregationQueue(agg, services.AggregationQueueConfig{Workers: 1, QueueSize: 1, MaxAttempts: 1})
	// not started yet, so the single buffer slot fills up
	q.Enqueue(context.Background(), "p1", "p2")
	q.Start(context.Background())
	shutdownQueue(t, q)

	agg.AssertExpectations(t)
	agg.AssertNotCalled(t, "RecomputeProjectHours", mock.Anything, []string{"p2"})
}

func TestAggregationQueue_EnqueueAfterShutdownIsDropped(t *testing.T) {
	agg := new(MockAggregator)
	q := services.NewAggregationQueue(agg, services.AggregationQueueConfig{Workers: 1, QueueSize: 2})
	q.Start(context.Background())
	shutdownQueue(t, q)

	assert.NotPanics(t, func() { q.Enqueue(context.Background(), "p1") })
	assert.NoError(t, q.Shutdown(context.Background()))
	agg.AssertNotCalled(t, "RecomputeProjectHours", mock.Anything, mock.Anything)
}

func TestAggregationQueue_JobOutlivesRequestContext(t *testing.T) {
	agg := new(MockAggregator)
	agg.On("RecomputeProjectHours", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), []string{"p1"}).Return(nil).Once()

	q := services.NewAggregationQueue(agg, services.AggregationQueueConfig{Workers: 1, QueueSize: 2, MaxAttempts: 1})
	reqCtx, cancel := context.WithCancel(context.Background())
	q.Enqueue(reqCtx, "p1")
	cancel()
	q.Start(context.Background())
	shutdownQueue(t, q)

	agg.AssertExpectations(t)
}
