package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultReminderConfig(t *testing.T) {
	cfg := DefaultReminderConfig()
	assert.NoError(t, validateReminderConfig(cfg))
	assert.Equal(t, 5*24*time.Hour, cfg.DeadlineOffset())
}

func TestValidateReminderConfig(t *testing.T) {
	cfg := DefaultReminderConfig()

	cfg.SweepInterval = 0
	assert.Error(t, validateReminderConfig(cfg))

	cfg = DefaultReminderConfig()
	cfg.NotifyLeadDays = -1
	assert.Error(t, validateReminderConfig(cfg))

	cfg = DefaultReminderConfig()
	cfg.DeadlineOffsetD = 0
	assert.Error(t, validateReminderConfig(cfg))
}

func TestStaticHolderReturnsFixedConfig(t *testing.T) {
	want := ReminderConfig{
		SweepInterval:   time.Minute,
		NotifyLeadDays:  2,
		DeadlineOffsetD: 7,
	}
	holder := NewStaticReminderHolder(want)
	assert.Equal(t, want, holder.Get())
}
