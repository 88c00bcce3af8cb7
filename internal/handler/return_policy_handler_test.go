package handler

import (
	"strings"
	"testing"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPolicies struct {
	service.ReturnPolicyService
	gotCompany uuid.UUID
	gotQuery   service.EligibilityQuery
	deleted    []model.PolicyTarget
}

func (s *stubPolicies) ResolveReturnEligibility(companyID uuid.UUID, q service.EligibilityQuery) (*service.ReturnEligibility, error) {
	s.gotCompany, s.gotQuery = companyID, q
	if q.TransactionID == nil && q.ItemID == nil {
		return nil, service.ErrValidation
	}
	days := 30
	return &service.ReturnEligibility{Allowed: true, Source: service.SourceCompany, EffectivePeriodDays: &days}, nil
}

func (s *stubPolicies) DeleteReturnPolicy(companyID uuid.UUID, targetType model.PolicyTarget, targetID uuid.UUID) error {
	s.deleted = append(s.deleted, targetType)
	return nil
}

func (s *stubPolicies) SetReturnPolicy(companyID uuid.UUID, req *service.SetReturnPolicyRequest, updatedBy string) (*model.ReturnPolicy, error) {
	return nil, service.ErrItemNotFound
}

func newPolicyApp(stub *stubPolicies, companyID uuid.UUID) *fiber.App {
	h := NewReturnPolicyHandler(stub)
	app := fiber.New()
	app.Get("/eligibility", withCompany(companyID), h.GetEligibility)
	app.Put("/return-policies", withCompany(companyID), h.SetPolicy)
	app.Delete("/return-policies/:type/:id", withCompany(companyID), h.DeletePolicy)
	return app
}

func TestGetEligibility(t *testing.T) {
	stub := &stubPolicies{}
	companyID := uuid.New()
	app := newPolicyApp(stub, companyID)
	itemID := uuid.New()

	status, body := call(t, app, "GET", "/eligibility?itemId="+itemID.String(), nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["allowed"])
	assert.Equal(t, companyID, stub.gotCompany)
	require.NotNil(t, stub.gotQuery.ItemID)
	assert.Equal(t, itemID, *stub.gotQuery.ItemID)
	assert.Nil(t, stub.gotQuery.TransactionID)

	status, _ = call(t, app, "GET", "/eligibility?transactionId=nope", nil)
	assert.Equal(t, 400, status)

	status, _ = call(t, app, "GET", "/eligibility", nil)
	assert.Equal(t, 400, status)
}

func TestDeletePolicyTargetType(t *testing.T) {
	stub := &stubPolicies{}
	app := newPolicyApp(stub, uuid.New())

	status, _ := call(t, app, "DELETE", "/return-policies/category/"+uuid.NewString(), nil)
	assert.Equal(t, 200, status)

	status, body := call(t, app, "DELETE", "/return-policies/vendor/"+uuid.NewString(), nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "type must be item or category", body["error"])

	status, _ = call(t, app, "DELETE", "/return-policies/item/not-a-uuid", nil)
	assert.Equal(t, 400, status)

	assert.Equal(t, []model.PolicyTarget{model.PolicyTargetCategory}, stub.deleted)
}

func TestSetPolicyErrors(t *testing.T) {
	app := newPolicyApp(&stubPolicies{}, uuid.New())

	status, _ := call(t, app, "PUT", "/return-policies", strings.NewReader("{not json"))
	assert.Equal(t, 400, status)

	status, _ = call(t, app, "PUT", "/return-policies", strings.NewReader(`{"target_type":"item","target_id":"`+uuid.NewString()+`","return_period_days":7}`))
	assert.Equal(t, 404, status)
}
