package config

import (
	"testing"
	"time"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"dbName":  "medtrack",
		},
		"sms": map[string]any{
			"accountSid": "",
			"fromNumber": "",
		},
		"billing": map[string]any{
			"freeSmsAllowance": 10,
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_DBNAME", want: "postgres.dbName"},
		{envKey: "SMS_ACCOUNTSID", want: "sms.accountSid"},
		{envKey: "BILLING_FREESMSALLOWANCE", want: "billing.freeSmsAllowance"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults_FillsCronAndBilling(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Cron.MissedDoseGrace != 30*time.Minute {
		t.Fatalf("missed dose grace = %s, want 30m", cfg.Cron.MissedDoseGrace)
	}
	if cfg.Cron.ReminderLead != 15*time.Minute {
		t.Fatalf("reminder lead = %s, want 15m", cfg.Cron.ReminderLead)
	}
	if cfg.Billing.FreeSMSAllowance != 10 || cfg.Billing.FamilySMSAllowance != 100 || cfg.Billing.PremiumSMSAllowance != 500 {
		t.Fatalf("billing allowances = %+v", cfg.Billing)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Cron:    &CronConfig{MissedDoseGrace: time.Hour, ReminderLead: 5 * time.Minute},
		Billing: &BillingConfig{FreeSMSAllowance: 3},
		Sync:    &SyncConfig{Interval: time.Minute},
	}
	applyDefaults(cfg)

	if cfg.Cron.MissedDoseGrace != time.Hour {
		t.Fatalf("missed dose grace overridden: %s", cfg.Cron.MissedDoseGrace)
	}
	if cfg.Billing.FreeSMSAllowance != 3 {
		t.Fatalf("free allowance overridden: %d", cfg.Billing.FreeSMSAllowance)
	}
	if cfg.Sync.Interval != time.Minute {
		t.Fatalf("sync interval overridden: %s", cfg.Sync.Interval)
	}
	if cfg.Sync.RequestTimeout != 15*time.Second {
		t.Fatalf("sync request timeout default missing: %s", cfg.Sync.RequestTimeout)
	}
}
