package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hbenali/aeropass/pkg/badge"
)

const (
	EnvNotificationsNewWindow       = "AEROPASS_NOTIFICATIONS_NEW_WINDOW"
	EnvNotificationsExpiryLookahead = "AEROPASS_NOTIFICATIONS_EXPIRY_LOOKAHEAD_DAYS"
	EnvNotificationsImminentDays    = "AEROPASS_NOTIFICATIONS_IMMINENT_DAYS"
)

// NotificationsConfig holds classification windows for the notification feed.
type NotificationsConfig struct {
	NewWindow           string `toml:"new_window"`
	ExpiryLookaheadDays int    `toml:"expiry_lookahead_days"`
	ImminentDays        int    `toml:"imminent_days"`
}

// Options converts the config into badge classification options.
func (c *NotificationsConfig) Options() badge.NotifyOptions {
	window, _ := time.ParseDuration(c.NewWindow)
	return badge.NotifyOptions{
		NewWindow:           window,
		ExpiryLookaheadDays: c.ExpiryLookaheadDays,
		ImminentDays:        c.ImminentDays,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *NotificationsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *NotificationsConfig) Merge(overlay *NotificationsConfig) {
	if overlay.NewWindow != "" {
		c.NewWindow = overlay.NewWindow
	}
	if overlay.ExpiryLookaheadDays != 0 {
		c.ExpiryLookaheadDays = overlay.ExpiryLookaheadDays
	}
	if overlay.ImminentDays != 0 {
		c.ImminentDays = overlay.ImminentDays
	}
}

func (c *NotificationsConfig) loadDefaults() {
	if c.NewWindow == "" {
		c.NewWindow = "24h"
	}
	if c.ExpiryLookaheadDays == 0 {
		c.ExpiryLookaheadDays = 30
	}
	if c.ImminentDays == 0 {
		c.ImminentDays = 7
	}
}

func (c *NotificationsConfig) loadEnv() {
	if v := os.Getenv(EnvNotificationsNewWindow); v != "" {
		c.NewWindow = v
	}
	if v := os.Getenv(EnvNotificationsExpiryLookahead); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ExpiryLookaheadDays = n
		}
	}
	if v := os.Getenv(EnvNotificationsImminentDays); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ImminentDays = n
		}
	}
}

func (c *NotificationsConfig) validate() error {
	if _, err := time.ParseDuration(c.NewWindow); err != nil {
		return fmt.Errorf("invalid new_window: %w", err)
	}
	if c.ExpiryLookaheadDays < 0 {
		return fmt.Errorf("invalid expiry_lookahead_days: %d", c.ExpiryLookaheadDays)
	}
	if c.ImminentDays < 0 {
		return fmt.Errorf("invalid imminent_days: %d", c.ImminentDays)
	}
	if c.ImminentDays > c.ExpiryLookaheadDays {
		return fmt.Errorf("imminent_days %d exceeds expiry_lookahead_days %d", c.ImminentDays, c.ExpiryLookaheadDays)
	}
	return nil
}
