package service

import (
	"testing"
	"time"
	_ "time/tzdata"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsSpy struct {
	repository.TransactionRepository
	since time.Time
}

func (s *statsSpy) GetDashboardStats(_ uuid.UUID, since time.Time) (*repository.DashboardStats, error) {
	s.since = since
	return &repository.DashboardStats{}, nil
}

func TestDashboardStatsUseCompanyMidnight(t *testing.T) {
	company := &model.Company{Name: "Jakarta Store", Timezone: "Asia/Jakarta"}
	company.ID = uuid.New()
	spy := &statsSpy{}

	svc := NewDashboardService(spy, newFakeCompanies(company), time.UTC).(*dashboardService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 20, 30, 0, 0, time.UTC) } // 03:30 on May 2 in Jakarta

	_, err := svc.GetDashboardStats(company.ID)
	require.NoError(t, err)
	assert.True(t, spy.since.Equal(time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC)), spy.since.String())

	_, err = svc.GetDashboardStats(uuid.New())
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestSalesMovementRange(t *testing.T) {
	svc := NewDashboardService(&statsSpy{}, newFakeCompanies(), nil)
	_, err := svc.GetSalesMovement(uuid.New(), 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.GetSalesMovement(uuid.New(), maxMovementDays+1)
	assert.ErrorIs(t, err, ErrValidation)
}
