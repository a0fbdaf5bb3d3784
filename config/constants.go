package config

import (
	"reflect"
	"regexp"
	"time"
)

const (
	DefaultTagName = "default"
	DotEnvFile     = ".env"
	dotEnvType     = "env"
)

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

var durationType = reflect.TypeFor[time.Duration]()
