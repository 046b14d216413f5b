package config

import (
	"strings"
	"testing"
)

// clearPipelineEnv blanks every variable Load reads so ambient shell state
// cannot leak into assertions.
func clearPipelineEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"AIRTABLE_API_KEY", "AIRTABLE_BASE_ID",
		"TABLE_APPLICANTS", "TABLE_PERSONAL_DETAILS", "TABLE_WORK_EXPERIENCE",
		"TABLE_SALARY_PREFERENCES", "TABLE_SHORTLISTED_LEADS",
		"LLM_PROVIDER", "LLM_MODEL",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"MAX_TOKENS_PER_CALL", "MAX_RETRIES",
		"TIER_1_COMPANIES", "MAX_HOURLY_RATE", "MIN_AVAILABILITY_HOURS",
		"MIN_YEARS_EXPERIENCE", "APPROVED_LOCATIONS",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AIRTABLE_API_KEY", "key")
	t.Setenv("AIRTABLE_BASE_ID", "base")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoadDefaults(t *testing.T) {
	clearPipelineEnv(t)
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.TableApplicants != "Applicants" {
		t.Errorf("TableApplicants = %q", cfg.TableApplicants)
	}
	if cfg.TablePersonalDetails != "Personal Details" {
		t.Errorf("TablePersonalDetails = %q", cfg.TablePersonalDetails)
	}
	if cfg.TableWorkExperience != "Work Experience" {
		t.Errorf("TableWorkExperience = %q", cfg.TableWorkExperience)
	}
	if cfg.TableSalaryPreferences != "Salary Preferences" {
		t.Errorf("TableSalaryPreferences = %q", cfg.TableSalaryPreferences)
	}
	if cfg.TableShortlistedLeads != "Shortlisted Leads" {
		t.Errorf("TableShortlistedLeads = %q", cfg.TableShortlistedLeads)
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Errorf("LLMProvider = %q, want openai", cfg.LLMProvider)
	}
	if cfg.LLMModel != "gpt-4" {
		t.Errorf("LLMModel = %q, want gpt-4", cfg.LLMModel)
	}
	if cfg.MaxTokensPerCall != 1000 {
		t.Errorf("MaxTokensPerCall = %d, want 1000", cfg.MaxTokensPerCall)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.MaxHourlyRate != 100 {
		t.Errorf("MaxHourlyRate = %v, want 100", cfg.MaxHourlyRate)
	}
	if cfg.MinAvailabilityHours != 20 {
		t.Errorf("MinAvailabilityHours = %d, want 20", cfg.MinAvailabilityHours)
	}
	if cfg.MinYearsExperience != 4 {
		t.Errorf("MinYearsExperience = %d, want 4", cfg.MinYearsExperience)
	}
	if len(cfg.TierOneCompanies) != 8 || cfg.TierOneCompanies[0] != "Google" {
		t.Errorf("TierOneCompanies = %v", cfg.TierOneCompanies)
	}
	if len(cfg.ApprovedLocations) != 8 || cfg.ApprovedLocations[0] != "US" {
		t.Errorf("ApprovedLocations = %v", cfg.ApprovedLocations)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearPipelineEnv(t)
	setRequiredEnv(t)
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("LLM_MODEL", "claude-3-5-sonnet-latest")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("MAX_HOURLY_RATE", "75.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("LLMProvider = %q, provider must be lowercased", cfg.LLMProvider)
	}
	if cfg.LLMModel != "claude-3-5-sonnet-latest" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.MaxHourlyRate != 75.5 {
		t.Errorf("MaxHourlyRate = %v, want 75.5", cfg.MaxHourlyRate)
	}
}

func TestLoadListParsing(t *testing.T) {
	clearPipelineEnv(t)
	setRequiredEnv(t)
	t.Setenv("TIER_1_COMPANIES", " Google , Meta ,,OpenAI ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"Google", "Meta", "OpenAI"}
	if len(cfg.TierOneCompanies) != len(want) {
		t.Fatalf("TierOneCompanies = %v, want %v", cfg.TierOneCompanies, want)
	}
	for i, w := range want {
		if cfg.TierOneCompanies[i] != w {
			t.Errorf("TierOneCompanies[%d] = %q, want %q", i, cfg.TierOneCompanies[i], w)
		}
	}
}

func TestLoadBadNumbersFallBack(t *testing.T) {
	clearPipelineEnv(t)
	setRequiredEnv(t)
	t.Setenv("MAX_RETRIES", "several")
	t.Setenv("MAX_HOURLY_RATE", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.MaxRetries)
	}
	if cfg.MaxHourlyRate != 100 {
		t.Errorf("MaxHourlyRate = %v, want default 100", cfg.MaxHourlyRate)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		AirtableAPIKey: "key",
		AirtableBaseID: "base",
		LLMProvider:    ProviderOpenAI,
		OpenAIAPIKey:   "sk-test",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing airtable key", func(c *Config) { c.AirtableAPIKey = "" }, "AIRTABLE_API_KEY"},
		{"missing base id", func(c *Config) { c.AirtableBaseID = "" }, "AIRTABLE_BASE_ID"},
		{"openai without key", func(c *Config) { c.OpenAIAPIKey = "" }, "OPENAI_API_KEY"},
		{"anthropic without key", func(c *Config) { c.LLMProvider = ProviderAnthropic }, "ANTHROPIC_API_KEY"},
		{"gemini without key", func(c *Config) { c.LLMProvider = ProviderGemini }, "GEMINI_API_KEY"},
		{"unknown provider", func(c *Config) { c.LLMProvider = "llama" }, "unsupported LLM_PROVIDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	var cfg Config

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors for empty config")
	}
	for _, want := range []string{"AIRTABLE_API_KEY", "AIRTABLE_BASE_ID", "unsupported LLM_PROVIDER"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got %v", want, err)
		}
	}
}

func TestLLMAPIKey(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{ProviderOpenAI, "openai-key"},
		{ProviderAnthropic, "anthropic-key"},
		{ProviderGemini, "gemini-key"},
		{"other", ""},
	}

	cfg := Config{
		OpenAIAPIKey:    "openai-key",
		AnthropicAPIKey: "anthropic-key",
		GeminiAPIKey:    "gemini-key",
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg.LLMProvider = tt.provider
			if got := cfg.LLMAPIKey(); got != tt.want {
				t.Errorf("LLMAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
