package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadDotEnv copies the variables of a dotenv file into the process environment.
// Variables that are already set win over the file.
//
// Example usage:
//
//	if err := config.LoadDotEnv("deploy/.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
//		// Handle error
//	}
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType(dotEnvType)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDotEnvFileFormat, err)
	}

	for _, key := range v.AllKeys() {
		envKey := strings.ToUpper(key)

		if _, exists := os.LookupEnv(envKey); exists {
			continue
		}

		if err := os.Setenv(envKey, v.GetString(key)); err != nil {
			return err
		}
	}

	return nil
}
