package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/testutil"
)

func TestRuleService_Create(t *testing.T) {
	repo := new(testutil.MockRuleRepo)
	svc := NewRuleService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.MonitorRule")).Return(nil)
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.MonitorRule{Name: "Front Door", Slug: "front-door"}, nil)

	rule, err := svc.Create(context.Background(), &domain.MonitorRule{Name: "Front Door"})
	assert.NoError(t, err)
	assert.Equal(t, "front-door", rule.Slug)
	repo.AssertExpectations(t)
}

func TestRuleService_Create_AppliesDefaults(t *testing.T) {
	repo := new(testutil.MockRuleRepo)
	svc := NewRuleService(repo)

	var stored *domain.MonitorRule
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.MonitorRule")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.MonitorRule)
		}).Return(nil)
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.MonitorRule{}, nil)

	_, err := svc.Create(context.Background(), &domain.MonitorRule{Name: "cam"})
	assert.NoError(t, err)
	assert.Equal(t, "person", stored.TargetClass)
	assert.Equal(t, domain.DefaultConfThreshold, stored.ConfThreshold)
	assert.Equal(t, domain.DefaultIoUThreshold, stored.IoUThreshold)
	assert.Equal(t, domain.DefaultMinDuration, stored.MinDuration)
	assert.Equal(t, domain.DefaultSamplingDuration, stored.SamplingDuration)
	assert.Equal(t, domain.DefaultSleepDuration, stored.SleepDuration)
	assert.NotEqual(t, uuid.Nil, stored.ID)
}

func TestRuleService_Create_InvalidClass(t *testing.T) {
	svc := NewRuleService(new(testutil.MockRuleRepo))

	_, err := svc.Create(context.Background(), &domain.MonitorRule{Name: "cam", TargetClass: "dragon"})
	assert.ErrorIs(t, err, domain.ErrUnknownTargetClass)
}

func TestRuleService_Create_NameConflict(t *testing.T) {
	repo := new(testutil.MockRuleRepo)
	svc := NewRuleService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.MonitorRule")).
		Return(domain.ErrRuleNameConflict)

	_, err := svc.Create(context.Background(), &domain.MonitorRule{Name: "dup"})
	assert.ErrorIs(t, err, domain.ErrRuleNameConflict)
}

func TestRuleService_Update(t *testing.T) {
	repo := new(testutil.MockRuleRepo)
	svc := NewRuleService(repo)

	id := uuid.New()
	existing := &domain.MonitorRule{
		ID:               id,
		Name:             "cam",
		Slug:             "cam",
		TargetClass:      "person",
		ConfThreshold:    0.75,
		IoUThreshold:     0.5,
		MinDuration:      2 * time.Second,
		SamplingDuration: 5 * time.Second,
		SleepDuration:    2 * time.Second,
	}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.MonitorRule")).Return(nil)

	updates := map[string]interface{}{
		"target_class": "dog",
		"min_duration": 10 * time.Second,
		"enabled":      false,
	}
	rule, err := svc.Update(context.Background(), id, updates)
	assert.NoError(t, err)
	assert.Equal(t, "dog", rule.TargetClass)
	assert.Equal(t, 10*time.Second, rule.MinDuration)
	assert.False(t, rule.Enabled)
}

func TestRuleService_Update_InvalidResult(t *testing.T) {
	repo := new(testutil.MockRuleRepo)
	svc := NewRuleService(repo)

	id := uuid.New()
	existing := &domain.MonitorRule{
		ID:               id,
		Name:             "cam",
		TargetClass:      "person",
		ConfThreshold:    0.75,
		IoUThreshold:     0.5,
		MinDuration:      2 * time.Second,
		SamplingDuration: 5 * time.Second,
		SleepDuration:    2 * time.Second,
	}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)

	_, err := svc.Update(context.Background(), id, map[string]interface{}{"conf_threshold": 2.0})
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)
}

func TestRuleService_Delete_NotFound(t *testing.T) {
	repo := new(testutil.MockRuleRepo)
	svc := NewRuleService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrRuleNotFound)

	err := svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "front-door-cam", generateSlug("Front Door Cam"))
	assert.Equal(t, "cam-01", generateSlug("cam_01"))
	assert.Equal(t, "cam", generateSlug("c@a!m"))
}
