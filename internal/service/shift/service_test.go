package shift

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly-backend-go/internal/domain/shift"
)

type stubPolicyRepo struct {
	policies map[string]shift.Policy
	upserted *shift.Policy
}

func (r *stubPolicyRepo) GetCurrentByEmployeeID(ctx context.Context, employeeID string, companyID string) (shift.Policy, error) {
	policy, ok := r.policies[employeeID]
	if !ok {
		return shift.Policy{}, shift.ErrShiftPolicyNotFound
	}
	return policy, nil
}

func (r *stubPolicyRepo) Upsert(ctx context.Context, policy shift.Policy) (shift.Policy, error) {
	policy.ID = "policy-1"
	r.upserted = &policy
	return policy, nil
}

func (r *stubPolicyRepo) ListByCompanyID(ctx context.Context, companyID string) ([]shift.Policy, error) {
	var policies []shift.Policy
	for _, p := range r.policies {
		policies = append(policies, p)
	}
	return policies, nil
}

func (r *stubPolicyRepo) DeleteByEmployeeID(ctx context.Context, employeeID string, companyID string) error {
	if _, ok := r.policies[employeeID]; !ok {
		return shift.ErrShiftPolicyNotFound
	}
	delete(r.policies, employeeID)
	return nil
}

func testDefaults() Defaults {
	return Defaults{
		StartTime:        "09:00",
		EndTime:          "18:00",
		TimeZone:         "Asia/Jakarta",
		LateGraceMinutes: 15,
		FullDayHours:     9,
		HalfDayHours:     4.5,
	}
}

func claimsContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": companyID,
		"role":       "admin",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestResolve_FallsBackToDefaultPolicy(t *testing.T) {
	service := NewShiftService(&stubPolicyRepo{}, testDefaults())
	ctx := claimsContext(t, "company-1")

	policy, err := service.Resolve(ctx, "emp-1", time.Now())

	require.NoError(t, err)
	assert.Equal(t, "company-1", policy.CompanyID)
	assert.Equal(t, "09:00", policy.StartTime)
	assert.Equal(t, "18:00", policy.EndTime)
	assert.True(t, policy.AutoExtend)
	assert.True(t, policy.WeeklyOffDays.Contains(time.Sunday))
	assert.False(t, policy.WeeklyOffDays.Contains(time.Monday))
}

func TestResolve_ReturnsConfiguredPolicy(t *testing.T) {
	employeeID := "emp-1"
	repo := &stubPolicyRepo{policies: map[string]shift.Policy{
		"emp-1": {
			ID:         "policy-1",
			CompanyID:  "company-1",
			EmployeeID: &employeeID,
			StartTime:  "07:30",
			EndTime:    "16:30",
			TimeZone:   "Asia/Jakarta",
		},
	}}
	service := NewShiftService(repo, testDefaults())
	ctx := claimsContext(t, "company-1")

	policy, err := service.Resolve(ctx, "emp-1", time.Now())

	require.NoError(t, err)
	assert.Equal(t, "policy-1", policy.ID)
	assert.Equal(t, "07:30", policy.StartTime)
}

func TestResolve_RequiresClaims(t *testing.T) {
	service := NewShiftService(&stubPolicyRepo{}, testDefaults())

	_, err := service.Resolve(context.Background(), "emp-1", time.Now())
	assert.Error(t, err)
}

func TestGetByEmployee_MarksDefaultPolicy(t *testing.T) {
	service := NewShiftService(&stubPolicyRepo{}, testDefaults())
	ctx := claimsContext(t, "company-1")

	resp, err := service.GetByEmployee(ctx, "emp-1")

	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, "09:00", resp.StartTime)
}

func TestUpsert_DefaultsTimeZoneAndAutoExtend(t *testing.T) {
	repo := &stubPolicyRepo{}
	service := NewShiftService(repo, testDefaults())
	ctx := claimsContext(t, "company-1")

	resp, err := service.Upsert(ctx, shift.UpsertShiftPolicyRequest{
		EmployeeID:       "emp-1",
		StartTime:        "08:00",
		EndTime:          "17:00",
		LateGraceMinutes: 10,
		FullDayHours:     8,
		HalfDayHours:     4,
		WeeklyOffDays:    []int{0, 6},
	})

	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", resp.TimeZone)
	assert.True(t, resp.AutoExtend)
	assert.False(t, resp.IsDefault)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, "company-1", repo.upserted.CompanyID)
}

func TestUpsert_RejectsInvalidRequest(t *testing.T) {
	service := NewShiftService(&stubPolicyRepo{}, testDefaults())
	ctx := claimsContext(t, "company-1")

	_, err := service.Upsert(ctx, shift.UpsertShiftPolicyRequest{
		EmployeeID:   "emp-1",
		StartTime:    "8:00",
		EndTime:      "17:00",
		FullDayHours: 8,
		HalfDayHours: 9,
	})

	assert.Error(t, err)
}
