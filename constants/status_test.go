package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalRisk(t *testing.T) {
	assert.Equal(t, RiskHigh, CanonicalRisk(" high "))
	assert.Equal(t, RiskLow, CanonicalRisk("LOW"))
	assert.Equal(t, RiskMedium, CanonicalRisk("unknown"))
	assert.Equal(t, RiskMedium, CanonicalRisk(""))
}

func TestRiskNeedsReview(t *testing.T) {
	assert.False(t, RiskLow.NeedsReview())
	assert.True(t, RiskMedium.NeedsReview())
	assert.True(t, RiskHigh.NeedsReview())
}
