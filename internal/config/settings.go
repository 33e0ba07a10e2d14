// Package config holds the bot's environment-derived settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mkorchagin/funpay-steampoints/internal/money"
)

// Environment variable names recognized by the bot.
const (
	EnvFunpayAuthToken      = "FUNPAY_AUTH_TOKEN"
	EnvBSPAPIKey            = "BSP_API_KEY"
	EnvCategoryID           = "CATEGORY_ID"
	EnvRequestTimeout       = "REQUEST_TIMEOUT"
	EnvMinPoints            = "MIN_POINTS"
	EnvAutoRefund           = "AUTO_REFUND"
	EnvAutoDeactivate       = "AUTO_DEACTIVATE"
	EnvBSPMinBalance        = "BSP_MIN_BALANCE"
	EnvDeactivateCategoryID = "DEACTIVATE_CATEGORY_ID"
)

const (
	defaultCategoryID     = 714
	defaultRequestTimeout = 300 // seconds
	defaultMinPoints      = 100
	defaultMinBalance     = money.Amount(5 * money.Scale)
)

// Settings is the immutable snapshot of environment-derived configuration.
// Loaded once at startup; read-only thereafter.
type Settings struct {
	FunpayAuthToken string
	BSPAPIKey       string

	// CategoryID is the subcategory watched for new orders.
	CategoryID int

	// RequestTimeout is both the poll interval and the outbound HTTP timeout.
	RequestTimeout time.Duration

	MinPoints      int
	AutoRefund     bool
	AutoDeactivate bool
	BSPMinBalance  money.Amount

	// DeactivateCategoryID is the subcategory whose lots the balance guard
	// toggles. Defaults to CategoryID.
	DeactivateCategoryID int
}

// FromEnv reads Settings from the environment and validates them.
func FromEnv() (*Settings, error) {
	categoryID, err := envInt(EnvCategoryID, defaultCategoryID)
	if err != nil {
		return nil, err
	}

	timeoutSeconds, err := envInt(EnvRequestTimeout, defaultRequestTimeout)
	if err != nil {
		return nil, err
	}

	minPoints, err := envInt(EnvMinPoints, defaultMinPoints)
	if err != nil {
		return nil, err
	}

	deactivateCategoryID, err := envInt(EnvDeactivateCategoryID, categoryID)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		FunpayAuthToken:      os.Getenv(EnvFunpayAuthToken),
		BSPAPIKey:            os.Getenv(EnvBSPAPIKey),
		CategoryID:           categoryID,
		RequestTimeout:       time.Duration(timeoutSeconds) * time.Second,
		MinPoints:            minPoints,
		AutoRefund:           envBool(EnvAutoRefund, true),
		AutoDeactivate:       envBool(EnvAutoDeactivate, true),
		BSPMinBalance:        envAmount(EnvBSPMinBalance, defaultMinBalance),
		DeactivateCategoryID: deactivateCategoryID,
	}

	if err := validateSettings(s); err != nil {
		return nil, fmt.Errorf("couldn't validate settings: %w", err)
	}
	return s, nil
}

func validateSettings(s *Settings) error {
	if s.FunpayAuthToken == "" {
		return fmt.Errorf("%s is required", EnvFunpayAuthToken)
	}
	if s.BSPAPIKey == "" {
		return fmt.Errorf("%s is required", EnvBSPAPIKey)
	}
	if s.CategoryID <= 0 {
		return fmt.Errorf("%s must be greater than 0", EnvCategoryID)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("%s must be greater than 0", EnvRequestTimeout)
	}
	if s.MinPoints <= 0 {
		return fmt.Errorf("%s must be greater than 0", EnvMinPoints)
	}
	if s.DeactivateCategoryID <= 0 {
		return fmt.Errorf("%s must be greater than 0", EnvDeactivateCategoryID)
	}
	return nil
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("couldn't parse %s=%q as integer: %w", name, v, err)
	}
	return n, nil
}

// envBool treats 1/true/yes/y (any case) as true; any other set value is false.
func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// envAmount falls back silently on malformed input; a bad threshold must not
// keep the bot from starting.
func envAmount(name string, fallback money.Amount) money.Amount {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	a, err := money.Parse(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return a
}
