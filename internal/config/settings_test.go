package config

import (
	"testing"
	"time"

	"github.com/mkorchagin/funpay-steampoints/internal/money"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(EnvFunpayAuthToken, "golden-key")
	t.Setenv(EnvBSPAPIKey, "bsp-key")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if s.CategoryID != 714 {
		t.Errorf("CategoryID = %d, want 714", s.CategoryID)
	}
	if s.RequestTimeout != 300*time.Second {
		t.Errorf("RequestTimeout = %v, want 5m", s.RequestTimeout)
	}
	if s.MinPoints != 100 {
		t.Errorf("MinPoints = %d, want 100", s.MinPoints)
	}
	if !s.AutoRefund || !s.AutoDeactivate {
		t.Errorf("AutoRefund = %v, AutoDeactivate = %v, want both true", s.AutoRefund, s.AutoDeactivate)
	}
	if s.BSPMinBalance != money.Amount(5*money.Scale) {
		t.Errorf("BSPMinBalance = %v, want 5", s.BSPMinBalance)
	}
	if s.DeactivateCategoryID != s.CategoryID {
		t.Errorf("DeactivateCategoryID = %d, want CategoryID %d", s.DeactivateCategoryID, s.CategoryID)
	}
}

func TestFromEnvMissingRequired(t *testing.T) {
	t.Setenv(EnvFunpayAuthToken, "")
	t.Setenv(EnvBSPAPIKey, "bsp-key")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error when FUNPAY_AUTH_TOKEN is missing")
	}

	t.Setenv(EnvFunpayAuthToken, "golden-key")
	t.Setenv(EnvBSPAPIKey, "")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error when BSP_API_KEY is missing")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv(EnvCategoryID, "123")
	t.Setenv(EnvRequestTimeout, "60")
	t.Setenv(EnvMinPoints, "500")
	t.Setenv(EnvBSPMinBalance, "1.25")
	t.Setenv(EnvDeactivateCategoryID, "456")

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if s.CategoryID != 123 {
		t.Errorf("CategoryID = %d, want 123", s.CategoryID)
	}
	if s.RequestTimeout != time.Minute {
		t.Errorf("RequestTimeout = %v, want 1m", s.RequestTimeout)
	}
	if s.MinPoints != 500 {
		t.Errorf("MinPoints = %d, want 500", s.MinPoints)
	}
	if s.BSPMinBalance != money.Amount(1_250_000) {
		t.Errorf("BSPMinBalance = %d, want 1250000", s.BSPMinBalance)
	}
	if s.DeactivateCategoryID != 456 {
		t.Errorf("DeactivateCategoryID = %d, want 456", s.DeactivateCategoryID)
	}
}

func TestFromEnvMalformedInteger(t *testing.T) {
	setRequired(t)
	t.Setenv(EnvRequestTimeout, "soon")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for malformed REQUEST_TIMEOUT")
	}
}

func TestFromEnvMalformedBalanceFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv(EnvBSPMinBalance, "lots")

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if s.BSPMinBalance != money.Amount(5*money.Scale) {
		t.Errorf("BSPMinBalance = %v, want default 5", s.BSPMinBalance)
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"Y", true},
		{" y ", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"enabled", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvAutoRefund, tt.value)
			if got := envBool(EnvAutoRefund, true); got != tt.want {
				t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
