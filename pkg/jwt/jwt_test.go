package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	company := uuid.New()
	in := Claims{
		SubjectID:  uuid.New(),
		Kind:       SubjectEmployee,
		CompanyID:  &company,
		Name:       "Ana",
		IsManager:  true,
		Privileges: []string{"sale:create", "sale:void"},
	}

	token, err := m.GenerateToken(in)
	require.NoError(t, err)

	out, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, in.SubjectID, out.SubjectID)
	assert.Equal(t, SubjectEmployee, out.Kind)
	require.NotNil(t, out.CompanyID)
	assert.Equal(t, company, *out.CompanyID)
	assert.True(t, out.HasPrivilege("sale:void"))
	assert.False(t, out.HasPrivilege("company:manage"))
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour).GenerateToken(Claims{SubjectID: uuid.New(), Kind: SubjectUser})
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken(Claims{SubjectID: uuid.New(), Kind: SubjectUser})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissing(t *testing.T) {
	_, err := NewManager("secret", time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
