package appenv

import (
	"os"
	"strings"
)

// Env is the runtime environment read from APP_ENV.
type Env string

const (
	Production  Env = "production"
	Development Env = "development"
	Test        Env = "test"
)

// Current resolves APP_ENV. Anything unrecognized counts as production so a
// misconfigured deployment never runs with relaxed CORS or limits.
func Current() Env {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))) {
	case string(Development), "dev":
		return Development
	case string(Test):
		return Test
	default:
		return Production
	}
}

func IsProduction() bool  { return Current() == Production }
func IsDevelopment() bool { return Current() == Development }
func IsTest() bool        { return Current() == Test }
