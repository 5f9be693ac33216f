package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the process reads from the environment. The
// operator credential and JWT secret are externalized on purpose; nothing is
// hard-coded into the binary.
type Config struct {
	Port                string
	OperatorUsername    string
	OperatorPassword    string
	NegativeStockPolicy string
	CSVDelimiter        rune
	TokenTTLHours       int
	SeedDefaults        bool
}

func Load() Config {
	ttl, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil || ttl < 1 {
		ttl = 24
	}

	password := strings.TrimSpace(os.Getenv("OPERATOR_PASSWORD"))
	if password == "" {
		password = "sucata123"
		log.Println("WARNING: using default dev operator password. Set OPERATOR_PASSWORD to override.")
	}

	delimiter := ','
	if d := getEnv("CSV_DELIMITER", ","); d == ";" {
		delimiter = ';'
	}

	cfg := Config{
		Port:                getEnv("PORT", "3000"),
		OperatorUsername:    getEnv("OPERATOR_USERNAME", "admin"),
		OperatorPassword:    password,
		NegativeStockPolicy: getEnv("NEGATIVE_STOCK_POLICY", "clamp"),
		CSVDelimiter:        delimiter,
		TokenTTLHours:       ttl,
		SeedDefaults:        getEnv("SEED_DEFAULT_MATERIALS", "true") == "true",
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
