package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muniadmin/internal/directory"
	"muniadmin/internal/directory/store/memory"
	"muniadmin/internal/platform/logger"
	dErrors "muniadmin/pkg/domain-errors"
)

func newService() *directory.Service {
	return directory.NewService(
		memory.NewDepartmentStore(),
		memory.NewMunicipalityStore(),
		memory.NewEmployeeStore(),
		logger.NewNop(),
	)
}

func TestDepartments_CRUD(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.CreateDepartment(ctx, "  Anagrafe ")
	require.NoError(t, err)
	assert.Equal(t, "Anagrafe", created.Name)
	assert.NotZero(t, created.ID)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := svc.CreateDepartment(ctx, "anagrafe")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := svc.CreateDepartment(ctx, "   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rename", func(t *testing.T) {
		updated, err := svc.UpdateDepartment(ctx, created.ID, "Stato Civile")
		require.NoError(t, err)
		assert.Equal(t, "Stato Civile", updated.Name)
	})

	t.Run("delete then read", func(t *testing.T) {
		require.NoError(t, svc.DeleteDepartment(ctx, created.ID))
		_, err := svc.GetDepartment(ctx, created.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestMunicipalities_DuplicateName(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateMunicipality(ctx, "Firenze")
	require.NoError(t, err)

	_, err = svc.CreateMunicipality(ctx, "Firenze")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestEmployees(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	t.Run("new records default to pending", func(t *testing.T) {
		created, err := svc.CreateEmployee(ctx, directory.EmployeeInput{
			Name:           "Luca Bianchi",
			Email:          "luca.bianchi@comune.example.it",
			DepartmentID:   1,
			MunicipalityID: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, directory.StatusPending, created.Status)
	})

	t.Run("explicit status is honored", func(t *testing.T) {
		active := directory.StatusActive
		created, err := svc.CreateEmployee(ctx, directory.EmployeeInput{
			Name:           "Giulia Verdi",
			Email:          "giulia.verdi@comune.example.it",
			DepartmentID:   1,
			MunicipalityID: 1,
			Status:         &active,
		})
		require.NoError(t, err)
		assert.Equal(t, directory.StatusActive, created.Status)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		bogus := directory.EmployeeStatus("RETIRED")
		_, err := svc.CreateEmployee(ctx, directory.EmployeeInput{
			Name:           "X",
			Email:          "x@comune.example.it",
			DepartmentID:   1,
			MunicipalityID: 1,
			Status:         &bogus,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("missing references rejected", func(t *testing.T) {
		_, err := svc.CreateEmployee(ctx, directory.EmployeeInput{
			Name:  "X",
			Email: "x@comune.example.it",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("status transition via update", func(t *testing.T) {
		created, err := svc.CreateEmployee(ctx, directory.EmployeeInput{
			Name:           "Marco Neri",
			Email:          "marco.neri@comune.example.it",
			DepartmentID:   2,
			MunicipalityID: 1,
		})
		require.NoError(t, err)

		active := directory.StatusActive
		updated, err := svc.UpdateEmployee(ctx, created.ID, directory.EmployeeInput{
			Name:           created.Name,
			Email:          created.Email,
			DepartmentID:   created.DepartmentID,
			MunicipalityID: created.MunicipalityID,
			Status:         &active,
		})
		require.NoError(t, err)
		assert.Equal(t, directory.StatusActive, updated.Status)
	})

	t.Run("list never returns nil", func(t *testing.T) {
		fresh := newService()
		employees, err := fresh.ListEmployees(ctx)
		require.NoError(t, err)
		assert.NotNil(t, employees)
		assert.Empty(t, employees)
	})
}
