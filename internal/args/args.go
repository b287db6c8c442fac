package args

import (
	"flag"
	"os"
	"strings"
)

type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

var configFilePath string
var environment = EnvironmentDevelopment

func Init() {
	InitWith(os.Args[1:])
}

// InitWith parses the given command line arguments.
func InitWith(arguments []string) {
	flags := flag.NewFlagSet("keyv", flag.ExitOnError)

	flags.StringVar(&configFilePath, "config", os.Getenv("KEYV_CONFIG"), "path to the yaml config file")
	env := flags.String("environment", string(EnvironmentDevelopment), "development or production")

	_ = flags.Parse(arguments)

	switch Environment(strings.ToLower(*env)) {
	case EnvironmentProduction:
		environment = EnvironmentProduction
	default:
		environment = EnvironmentDevelopment
	}
}

func ConfigFilePath() string {
	return configFilePath
}

func IsProduction() bool {
	return environment == EnvironmentProduction
}
