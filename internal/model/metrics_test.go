package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeanQuality(t *testing.T) {
	assert.Equal(t, 0.0, MeanQuality(nil))

	platforms := []PlatformMetrics{
		{Quality: QualityLive},
		{Quality: QualityFallback},
	}
	assert.InDelta(t, 0.75, MeanQuality(platforms), 0.001)

	platforms = append(platforms, PlatformMetrics{Quality: QualitySuspect})
	assert.InDelta(t, (1.0+0.5+0.7)/3, MeanQuality(platforms), 0.001)
}

func TestCredentialExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cred := Credential{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, cred.Expired(now))

	cred.ExpiresAt = now.Add(-time.Hour)
	assert.True(t, cred.Expired(now))

	// Expiry exactly at now counts as expired.
	cred.ExpiresAt = now
	assert.True(t, cred.Expired(now))
}

func TestFloat(t *testing.T) {
	p := Float(3.5)
	assert.NotNil(t, p)
	assert.Equal(t, 3.5, *p)
}
