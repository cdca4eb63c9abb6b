package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionkit/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{"", environment.Development},
		{"dev", environment.Development},
		{"Development", environment.Development},
		{"stage", environment.Staging},
		{"staging", environment.Staging},
		{"prod", environment.Production},
		{" PRODUCTION ", environment.Production},
		{"qa", environment.Environment("qa")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, environment.Parse(tt.in))
		})
	}
}

func TestSecureCookies(t *testing.T) {
	t.Parallel()

	assert.False(t, environment.Development.SecureCookies())
	assert.True(t, environment.Staging.SecureCookies())
	assert.True(t, environment.Production.SecureCookies())
	assert.True(t, environment.Parse("qa").SecureCookies())
	assert.True(t, environment.Production.IsProduction())
	assert.Equal(t, "staging", environment.Staging.String())
}
