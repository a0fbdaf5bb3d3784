package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"reflect"
	"time"

	"github.com/YaCodeDev/GoYaTgWebhook/valueparser"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
)

// LoadConfigStructFromEnv is LoadConfigStructFromEnvHandlingError that terminates the
// process through log.Fatalf on error.
func LoadConfigStructFromEnv[T any](instance *T, log yalogger.Logger) {
	safetyCheck(&log)

	if err := LoadConfigStructFromEnvHandlingError(instance, log); err != nil {
		log.Fatalf("Failed to load config struct from env: %v", err)
	}
}

// LoadConfigStructFromEnvHandlingError fills a struct from environment variables.
//
// Keys are the field names in SCREAMING_SNAKE_CASE; nested structs prefix the keys of
// their fields with their own key. A `.env` file in the working directory is read first,
// real environment variables take precedence over it. Empty variables count as unset.
//
// A field is resolved in this order: environment variable, the value already present in
// the struct, the `default` tag. A field with none of them is required and yields an
// error wrapping ErrValueIsRequired. An empty `default:""` tag marks an optional field.
//
// Scalars, custom types with UnmarshalText/Unmarshal, time.Duration and comma separated
// slices are supported.
//
// Example usage:
//
//	type Redis struct {
//		Addr string `default:""`
//	}
//
//	type Config struct {
//		BotToken    string
//		Port        uint16
//		Host        string
//		BindAddress string         `default:"0.0.0.0"`
//		LogLevel    yalogger.Level `default:"info"`
//		Redis       Redis
//	}
//
//	var cfg Config
//
//	if err := config.LoadConfigStructFromEnvHandlingError(&cfg, log); err != nil {
//		// Handle error
//	}
func LoadConfigStructFromEnvHandlingError[T any](instance *T, log yalogger.Logger) yaerrors.Error {
	safetyCheck(&log)

	if err := LoadDotEnv(DotEnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("No %s file, reading process environment only", DotEnvFile)
		} else {
			log.Warnf("Error loading .env file: %v", err)
		}
	}

	if instance == nil {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			ErrConfigStructMustBeStruct,
			"config loader: nil instance",
			log,
		)
	}

	value := reflect.ValueOf(instance).Elem()
	if value.Kind() != reflect.Struct {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			ErrConfigStructMustBeStruct,
			fmt.Sprintf("config loader, got %T", instance),
			log,
		)
	}

	return loadConfigStructFromEnv(value, "", log)
}

func loadConfigStructFromEnv(
	structValue reflect.Value,
	keyPath string,
	log yalogger.Logger,
) yaerrors.Error {
	structType := structValue.Type()

	for i := range structValue.NumField() {
		field := structType.Field(i)
		fieldVal := structValue.Field(i)

		if !fieldVal.CanSet() {
			log.Tracef("Field %s cannot be set", field.Name)

			continue
		}

		envKey := toScreamingSnakeCase(field.Name)
		if keyPath != "" {
			envKey = keyPath + "_" + envKey
		}

		if field.Type.Kind() == reflect.Struct && !valueparser.Supports(field.Type) {
			if err := loadConfigStructFromEnv(fieldVal, envKey, log); err != nil {
				return err.Wrap("config loader: struct field " + field.Name)
			}

			continue
		}

		raw, fromEnv := lookupEnv(envKey)
		defaultValStr, hasDefault := field.Tag.Lookup(DefaultTagName)

		switch {
		case fromEnv:
		case !fieldVal.IsZero():
			continue
		case hasDefault:
			if defaultValStr == "" {
				continue
			}

			raw = defaultValStr
		default:
			return yaerrors.FromError(
				http.StatusBadRequest,
				ErrValueIsRequired,
				"config loader: environment variable "+envKey,
			)
		}

		if err := setField(fieldVal, raw); err != nil {
			return err.Wrap(fmt.Sprintf("config loader: field %s (%s)", field.Name, envKey))
		}
	}

	return nil
}

func setField(fieldVal reflect.Value, raw string) yaerrors.Error {
	var (
		parsed reflect.Value
		err    yaerrors.Error
	)

	switch {
	case fieldVal.Type() == durationType:
		d, parseErr := time.ParseDuration(raw)
		if parseErr != nil {
			return yaerrors.FromError(
				http.StatusBadRequest,
				fmt.Errorf("%w: %w", ErrInvalidDuration, parseErr),
				"parse duration "+raw,
			)
		}

		parsed = reflect.ValueOf(d)

	case fieldVal.Kind() == reflect.Slice && !valueparser.Supports(fieldVal.Type()):
		parsed, err = valueparser.ParseArrayInto(raw, nil, fieldVal.Type())

	default:
		parsed, err = valueparser.ParseInto(raw, fieldVal.Type())
	}

	if err != nil {
		return err
	}

	fieldVal.Set(parsed)

	return nil
}
