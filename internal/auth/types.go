package auth

import "time"

// Principal is what the bearer token says about its holder. It is read
// without signature verification; the NVR endpoints verify it.
type Principal struct {
	Issuer    string
	Subject   string
	Audience  []string
	ExpiresAt time.Time
	Claims    map[string]any
}

type Config struct {
	Token  string
	Leeway time.Duration
}
