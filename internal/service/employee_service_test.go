package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeChangesDropCachedReports(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	c := newMemCache()
	reports := NewReportService(s.employees, s.txs, s.credits, c, time.Minute, zerolog.Nop())
	svc := NewEmployeeService(s.employees, newFakeCompanies(s.company), reports)

	peers := func() int {
		t.Helper()
		report, err := reports.CompareEmployees(ctx, s.company.ID, s.cashier.ID, nil, nil)
		require.NoError(t, err)
		require.Len(t, c.entries, 1)
		return report.Averages.Employees
	}
	assert.Equal(t, 1, peers())

	avery, err := svc.CreateEmployee(ctx, s.company.ID, &CreateEmployeeRequest{Name: "Avery"}, "admin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(avery.Barcode, "EMP-"))
	assert.True(t, avery.InSales, "in_sales defaults to true")
	assert.Empty(t, c.entries)
	assert.Equal(t, 2, peers())

	inSales := false
	backOffice, err := svc.CreateEmployee(ctx, s.company.ID, &CreateEmployeeRequest{Name: "Back Office", InSales: &inSales}, "admin")
	require.NoError(t, err)
	assert.False(t, s.employees.rows[backOffice.ID].InSales)
	assert.Empty(t, c.entries)
	assert.Equal(t, 2, peers(), "staff outside sales stay out of the comparison")

	_, err = svc.UpdateEmployee(ctx, s.company.ID, avery.ID, &UpdateEmployeeRequest{Name: "Avery", IsActive: true, InSales: false}, "admin")
	require.NoError(t, err)
	assert.Empty(t, c.entries)
	assert.Equal(t, 1, peers())

	require.NoError(t, svc.DeactivateEmployee(ctx, s.company.ID, s.cashier.ID, "admin"))
	assert.Empty(t, c.entries)
	assert.Equal(t, 0, peers())
}
