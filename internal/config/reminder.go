package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReminderConfig tunes the payment-reminder sweep. The deadline offset is the
// fixed gap between order creation and its payment deadline; the notify lead
// is how far ahead of the deadline a reminder goes out.
type ReminderConfig struct {
	SweepInterval   time.Duration `mapstructure:"sweepInterval"`
	NotifyLeadDays  int           `mapstructure:"notifyLeadDays"`
	DeadlineOffsetD int           `mapstructure:"deadlineOffsetDays"`
}

func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		SweepInterval:   30 * time.Second,
		NotifyLeadDays:  1,
		DeadlineOffsetD: 5,
	}
}

func (c ReminderConfig) DeadlineOffset() time.Duration {
	return time.Duration(c.DeadlineOffsetD) * 24 * time.Hour
}

// ReminderConfigHolder keeps the live reminder config and hot-reloads it when
// the backing file changes. Readers always see a complete, validated value.
type ReminderConfigHolder struct {
	current atomic.Value // holds ReminderConfig
}

func NewReminderConfigHolder() (*ReminderConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reminder")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/shopd")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SHOPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReminderConfig()
	v.SetDefault("reminder.sweepInterval", defaults.SweepInterval)
	v.SetDefault("reminder.notifyLeadDays", defaults.NotifyLeadDays)
	v.SetDefault("reminder.deadlineOffsetDays", defaults.DeadlineOffsetD)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ReminderConfig
	if err := v.UnmarshalKey("reminder", &cfg); err != nil {
		return nil, err
	}
	if err := validateReminderConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReminderConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReminderConfig
		if err := v.UnmarshalKey("reminder", &updated); err != nil {
			log.Printf("[reminder-config] reload failed: %v", err)
			return
		}
		if err := validateReminderConfig(updated); err != nil {
			log.Printf("[reminder-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[reminder-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ReminderConfigHolder) Get() ReminderConfig {
	return h.current.Load().(ReminderConfig)
}

// NewStaticReminderHolder wraps a fixed config, for tests.
func NewStaticReminderHolder(cfg ReminderConfig) *ReminderConfigHolder {
	holder := &ReminderConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateReminderConfig(cfg ReminderConfig) error {
	if cfg.SweepInterval <= 0 {
		return errors.New("reminder: sweepInterval must be positive")
	}
	if cfg.NotifyLeadDays < 0 {
		return errors.New("reminder: notifyLeadDays must not be negative")
	}
	if cfg.DeadlineOffsetD <= 0 {
		return errors.New("reminder: deadlineOffsetDays must be positive")
	}
	return nil
}
