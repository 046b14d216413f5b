package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported LLM providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config carries every tunable for a run. It is built once in main and
// passed by reference; nothing mutates it afterwards.
type Config struct {
	AirtableAPIKey string
	AirtableBaseID string

	TableApplicants        string
	TablePersonalDetails   string
	TableWorkExperience    string
	TableSalaryPreferences string
	TableShortlistedLeads  string

	LLMProvider      string
	LLMModel         string
	OpenAIAPIKey     string
	AnthropicAPIKey  string
	GeminiAPIKey     string
	MaxTokensPerCall int
	MaxRetries       int

	TierOneCompanies     []string
	MaxHourlyRate        float64
	MinAvailabilityHours int
	MinYearsExperience   int
	ApprovedLocations    []string
}

// Load reads a .env file when one exists, then builds the Config from the
// environment with documented defaults and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{
		AirtableAPIKey: os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID: os.Getenv("AIRTABLE_BASE_ID"),

		TableApplicants:        envStr("TABLE_APPLICANTS", "Applicants"),
		TablePersonalDetails:   envStr("TABLE_PERSONAL_DETAILS", "Personal Details"),
		TableWorkExperience:    envStr("TABLE_WORK_EXPERIENCE", "Work Experience"),
		TableSalaryPreferences: envStr("TABLE_SALARY_PREFERENCES", "Salary Preferences"),
		TableShortlistedLeads:  envStr("TABLE_SHORTLISTED_LEADS", "Shortlisted Leads"),

		LLMProvider:      strings.ToLower(envStr("LLM_PROVIDER", ProviderOpenAI)),
		LLMModel:         envStr("LLM_MODEL", "gpt-4"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		MaxTokensPerCall: envInt("MAX_TOKENS_PER_CALL", 1000),
		MaxRetries:       envInt("MAX_RETRIES", 3),

		TierOneCompanies:     envList("TIER_1_COMPANIES", "Google,Meta,OpenAI,Microsoft,Amazon,Apple,Netflix,Anthropic"),
		MaxHourlyRate:        envFloat("MAX_HOURLY_RATE", 100),
		MinAvailabilityHours: envInt("MIN_AVAILABILITY_HOURS", 20),
		MinYearsExperience:   envInt("MIN_YEARS_EXPERIENCE", 4),
		ApprovedLocations:    envList("APPROVED_LOCATIONS", "US,USA,United States,Canada,UK,United Kingdom,Germany,India"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate collects every problem instead of stopping at the first one.
func (c *Config) Validate() error {
	var problems []string

	if c.AirtableAPIKey == "" {
		problems = append(problems, "AIRTABLE_API_KEY is not set")
	}
	if c.AirtableBaseID == "" {
		problems = append(problems, "AIRTABLE_BASE_ID is not set")
	}

	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			problems = append(problems, "OPENAI_API_KEY is not set but LLM_PROVIDER is openai")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			problems = append(problems, "ANTHROPIC_API_KEY is not set but LLM_PROVIDER is anthropic")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			problems = append(problems, "GEMINI_API_KEY is not set but LLM_PROVIDER is gemini")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported LLM_PROVIDER %q (want openai, anthropic or gemini)", c.LLMProvider))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(problems, "\n  - "))
	}

	return nil
}

// LLMAPIKey returns the API key matching the configured provider.
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	}
	return ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring non-integer environment value", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("ignoring non-numeric environment value", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func envList(key, fallback string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
