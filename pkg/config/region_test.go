// pkg/config/region_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test region name parsing

package config_test

import (
	"testing"

	"github.com/dotboot/dotboot/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		name string
		kind config.RegionKind
	}{
		{"home", config.RegionHome},
		{"aws-us-east-2", config.RegionAWS},
		{"aws-", config.RegionOther},
		{"office", config.RegionOther},
		{"", config.RegionOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := config.ParseRegion(tt.name)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.name, r.String())
		})
	}

	cfg := &config.Config{Region: "aws-us-east-2"}
	assert.Equal(t, config.RegionAWS, cfg.ParsedRegion().Kind)
}
