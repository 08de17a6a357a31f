package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobCanTransition(t *testing.T) {
	allowed := []struct {
		from, to JobStatus
	}{
		{JobOpen, JobAssigned},
		{JobOpen, JobCancelled},
		{JobAssigned, JobCompleted},
	}
	for _, edge := range allowed {
		job := Job{Status: edge.from}
		assert.NoError(t, job.CanTransition(edge.to), "%s -> %s should be allowed", edge.from, edge.to)
	}

	forbidden := []struct {
		from, to JobStatus
	}{
		{JobOpen, JobCompleted},
		{JobAssigned, JobOpen},
		{JobAssigned, JobCancelled},
		{JobCompleted, JobOpen},
		{JobCompleted, JobAssigned},
		{JobCancelled, JobOpen},
		{JobCancelled, JobCompleted},
	}
	for _, edge := range forbidden {
		job := Job{Status: edge.from}
		assert.Error(t, job.CanTransition(edge.to), "%s -> %s should be refused", edge.from, edge.to)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range []JobCategory{
		CategoryPlumbing, CategoryElectrical, CategoryCarpentry,
		CategoryPainting, CategoryAppliance, CategoryLandscaping, CategoryGeneral,
	} {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory("welding"))
	assert.False(t, ValidCategory(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleHomeowner))
	assert.True(t, ValidRole(RoleFixer))
	assert.False(t, ValidRole("admin"))
}
