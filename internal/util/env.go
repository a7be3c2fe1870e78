package util

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file when one exists. A missing file
// is not an error so containerized deployments can rely on real env vars.
func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}
