package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the process configuration assembled from the environment.
type Config struct {
	Port        string `validate:"required,numeric"`
	DBPath      string
	DatabaseURL string `validate:"omitempty,url"`
	RedisURL    string `validate:"omitempty,url"`
	SeedPath    string

	Optimizer      string `validate:"oneof=ors osrm none"`
	ORSAPIKey      string `validate:"required_if=Optimizer ors"`
	ORSBaseURL     string `validate:"required,url"`
	OSRMBaseURL    string `validate:"required,url"`
	GeocodeCountry string `validate:"omitempty,len=2,alpha"`
	SummaryURL     string `validate:"omitempty,url"`
	SummaryAPIKey  string

	SimInterval       time.Duration `validate:"gt=0"`
	GeometryTolerance float64       `validate:"gt=0"`
	CompanyName       string
	AccessTokenScheme string        `validate:"required,alpha"`
	CacheTTL          time.Duration `validate:"gte=0"`
	CORSOrigins       []string      `validate:"min=1,dive,required"`
	TilesPath         string
}

// Load reads .env when present, then the environment, and validates the
// result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var errs []error
	seconds := func(key string, fallback int) time.Duration {
		n, err := strconv.Atoi(Get(key, strconv.Itoa(fallback)))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return time.Duration(n) * time.Second
	}

	tolerance, err := strconv.ParseFloat(Get("GEOMETRY_TOLERANCE_METERS", "250"), 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("GEOMETRY_TOLERANCE_METERS: %w", err))
	}

	cfg := Config{
		Port:        Get("PORT", "8080"),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SeedPath:    Get("SEED_PATH", "data/seeds/routes.json"),

		Optimizer:      strings.ToLower(Get("OPTIMIZER", "ors")),
		ORSAPIKey:      os.Getenv("ORS_API_KEY"),
		ORSBaseURL:     Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		OSRMBaseURL:    Get("OSRM_BASE_URL", "https://router.project-osrm.org"),
		GeocodeCountry: Get("GEOCODE_COUNTRY", "BR"),
		SummaryURL:     os.Getenv("SUMMARY_URL"),
		SummaryAPIKey:  os.Getenv("SUMMARY_API_KEY"),

		SimInterval:       seconds("SIM_INTERVAL_SECONDS", 4),
		GeometryTolerance: tolerance,
		CompanyName:       Get("COMPANY_NAME", "TransExpress"),
		AccessTokenScheme: Get("ACCESS_TOKEN_SCHEME", "meuonibus"),
		CacheTTL:          seconds("CACHE_TTL_SECONDS", 600),
		CORSOrigins:       List("CORS_ORIGINS", "*"),
		TilesPath:         os.Getenv("TILES_PATH"),
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errs[0])
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Get returns the environment value of key, or fallback when it is unset
// or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// List splits a comma-separated value and drops empty items.
func List(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(Get(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
