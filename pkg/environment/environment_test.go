package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hsedigital/platform/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, environment.Production, environment.Parse("production"))
	assert.Equal(t, environment.Production, environment.Parse("prod"))
	assert.Equal(t, environment.Staging, environment.Parse("staging"))
	assert.Equal(t, environment.Staging, environment.Parse("stage"))
	assert.Equal(t, environment.Development, environment.Parse("development"))
	assert.Equal(t, environment.Development, environment.Parse(""))
	assert.Equal(t, environment.Development, environment.Parse("weird"))
}

func TestChecks(t *testing.T) {
	t.Parallel()

	assert.True(t, environment.Production.IsProduction())
	assert.False(t, environment.Production.IsDevelopment())
	assert.True(t, environment.Development.IsDevelopment())
}
