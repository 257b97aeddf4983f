package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultOpeningTime    = "08:00"
	defaultClosingTime    = "16:30"
	defaultLunchStart     = "12:30"
	defaultLunchEnd       = "13:30"
	defaultBlockMinutes   = "30"
	defaultWeekdays       = "1,2,3,4,5"
	defaultMaxPerBlock    = "40"
	defaultMinPartySize   = "2"
	defaultMaxPartySize   = "25"
	defaultMinAdvanceDays = "1"

	defaultJWTSecret = "change-me-jwt-secret"
	defaultJWTTTL    = "24h"
)

// RealizedDefaultNote is stored when a visit is marked realized without an
// explicit incident description.
const RealizedDefaultNote = "sin novedad"

// GoodsDefaultNote is stored when a goods donation carries no evaluation note.
const GoodsDefaultNote = "ninguna"

// VisitConfig holds the scheduling rules for group visits. Values are fixed
// at startup; every component receives the config explicitly so tests can
// build their own.
type VisitConfig struct {
	OpeningTime  string // "HH:MM"
	ClosingTime  string // "HH:MM", slot at exactly closing time is generated
	LunchStart   string // blocks inside [LunchStart, LunchEnd] are omitted
	LunchEnd     string
	BlockMinutes int

	OperatingWeekdays map[time.Weekday]bool

	MaxPerBlock  int
	MinPartySize int
	MaxPartySize int

	MinAdvanceDays int
	MaxAdvanceDays *int // nil = unbounded; reserved, not enforced

	Statuses []string
}

// DonationConfig holds the allowed states for both donation kinds.
type DonationConfig struct {
	MoneyStatuses  []string
	GoodsStatuses  []string
	ItemConditions []string
}

// ValidationConfig bounds free-text institution/donor names.
type ValidationConfig struct {
	NameMinLength int
	NameMaxLength int
	NameRegexp    *regexp.Regexp
}

type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
}

// PaymentsConfig carries the checkout gateway credentials. An empty secret
// key disables online payment; money donations then stay pending until a
// staff member settles them by hand.
type PaymentsConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	SuccessURL          string
	CancelURL           string
}

type Config struct {
	Visits     VisitConfig
	Donations  DonationConfig
	Validation ValidationConfig
	Auth       AuthConfig
	Payments   PaymentsConfig
}

// Load builds the museum configuration from environment variables, falling
// back to the production defaults of the Gustavo Orcés museum.
func Load() (*Config, error) {
	cfg := &Config{
		Visits: VisitConfig{
			OpeningTime: getEnv("MUSEUM_OPENING_TIME", defaultOpeningTime),
			ClosingTime: getEnv("MUSEUM_CLOSING_TIME", defaultClosingTime),
			LunchStart:  getEnv("MUSEUM_LUNCH_START", defaultLunchStart),
			LunchEnd:    getEnv("MUSEUM_LUNCH_END", defaultLunchEnd),
			Statuses:    []string{"pending", "realized", "cancelled"},
		},
		Donations: DonationConfig{
			MoneyStatuses:  []string{"pending", "completed", "failed"},
			GoodsStatuses:  []string{"pending", "accepted", "rejected"},
			ItemConditions: []string{"new", "used"},
		},
		Validation: ValidationConfig{
			NameMinLength: 3,
			NameMaxLength: 100,
			NameRegexp:    regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`),
		},
	}

	var err error
	if cfg.Visits.BlockMinutes, err = parseIntEnv("MUSEUM_BLOCK_MINUTES", defaultBlockMinutes); err != nil {
		return nil, err
	}
	if cfg.Visits.MaxPerBlock, err = parseIntEnv("MUSEUM_MAX_PER_BLOCK", defaultMaxPerBlock); err != nil {
		return nil, err
	}
	if cfg.Visits.MinPartySize, err = parseIntEnv("MUSEUM_MIN_PARTY_SIZE", defaultMinPartySize); err != nil {
		return nil, err
	}
	if cfg.Visits.MaxPartySize, err = parseIntEnv("MUSEUM_MAX_PARTY_SIZE", defaultMaxPartySize); err != nil {
		return nil, err
	}
	if cfg.Visits.MinAdvanceDays, err = parseIntEnv("MUSEUM_MIN_ADVANCE_DAYS", defaultMinAdvanceDays); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(os.Getenv("MUSEUM_MAX_ADVANCE_DAYS")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("MUSEUM_MAX_ADVANCE_DAYS must be an integer: %w", err)
		}
		cfg.Visits.MaxAdvanceDays = &v
	}

	if cfg.Visits.OperatingWeekdays, err = parseWeekdaysEnv("MUSEUM_OPERATING_WEEKDAYS", defaultWeekdays); err != nil {
		return nil, err
	}

	cfg.Auth.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	if cfg.Auth.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}

	cfg.Payments = PaymentsConfig{
		StripeSecretKey:     strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		StripeWebhookSecret: strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		SuccessURL:          getEnv("DONATION_SUCCESS_URL", "http://localhost:3000/donations/success"),
		CancelURL:           getEnv("DONATION_CANCEL_URL", "http://localhost:3000/donations/cancel"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Visits.BlockMinutes <= 0 {
		return fmt.Errorf("MUSEUM_BLOCK_MINUTES must be > 0")
	}
	if cfg.Visits.MaxPerBlock <= 0 {
		return fmt.Errorf("MUSEUM_MAX_PER_BLOCK must be > 0")
	}
	if cfg.Visits.MinPartySize <= 0 || cfg.Visits.MaxPartySize < cfg.Visits.MinPartySize {
		return fmt.Errorf("party size bounds are inconsistent")
	}
	if cfg.Visits.MinAdvanceDays < 0 {
		return fmt.Errorf("MUSEUM_MIN_ADVANCE_DAYS must be >= 0")
	}
	if len(cfg.Visits.OperatingWeekdays) == 0 {
		return fmt.Errorf("MUSEUM_OPERATING_WEEKDAYS must name at least one weekday")
	}
	if cfg.Auth.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	return nil
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseIntEnv(name, def string) (int, error) {
	raw := strings.TrimSpace(getEnv(name, def))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := strings.TrimSpace(getEnv(name, def))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", name, raw)
	}
	return d, nil
}

// parseWeekdaysEnv reads a comma-separated list of weekday numbers
// (0=Sunday .. 6=Saturday).
func parseWeekdaysEnv(name, def string) (map[time.Weekday]bool, error) {
	raw := strings.TrimSpace(getEnv(name, def))
	out := make(map[time.Weekday]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("%s must list weekday numbers 0-6, got %q", name, part)
		}
		out[time.Weekday(n)] = true
	}
	return out, nil
}
