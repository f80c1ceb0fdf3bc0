package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	FinnhubEnv = "FINNHUB_API_KEY"
	OpenAIEnv  = "OPENAI_API_KEY"
)

var ErrMissingCredential = errors.New("credential not configured")

// Values shipped in the sample scripts; treated the same as unset.
var placeholders = map[string]bool{
	"your_finnhub_api_key_here":        true,
	"your_actual_finnhub_api_key_here": true,
	"your_openai_api_key_here":         true,
	"your_actual_openai_api_key_here":  true,
}

var signupURL = map[string]string{
	FinnhubEnv: "https://finnhub.io/",
	OpenAIEnv:  "https://platform.openai.com/api-keys",
}

// Credentials are the two keys the analysis framework reads from the environment
type Credentials struct {
	FinnhubAPIKey string
	OpenAIAPIKey  string
}

// FromEnv reads both keys from the process environment
func FromEnv() Credentials {
	return Credentials{
		FinnhubAPIKey: strings.TrimSpace(os.Getenv(FinnhubEnv)),
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv(OpenAIEnv)),
	}
}

// Validate rejects empty and placeholder values
func (c Credentials) Validate() error {
	var errs []error
	for _, kv := range c.pairs() {
		if kv[1] == "" || placeholders[kv[1]] {
			errs = append(errs, fmt.Errorf("%w: set %s (get a key from %s)", ErrMissingCredential, kv[0], signupURL[kv[0]]))
		}
	}
	return errors.Join(errs...)
}

// Apply exports both keys into the process-wide environment
func (c Credentials) Apply() error {
	for _, kv := range c.pairs() {
		if err := os.Setenv(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", kv[0], err)
		}
	}
	return nil
}

// Environ returns the keys as KEY=value pairs for a child process
func (c Credentials) Environ() []string {
	out := make([]string, 0, 2)
	for _, kv := range c.pairs() {
		out = append(out, kv[0]+"="+kv[1])
	}
	return out
}

// Masked returns a log-safe view of both keys
func (c Credentials) Masked() map[string]string {
	return map[string]string{
		FinnhubEnv: mask(c.FinnhubAPIKey),
		OpenAIEnv:  mask(c.OpenAIAPIKey),
	}
}

func (c Credentials) pairs() [][2]string {
	return [][2]string{
		{FinnhubEnv, c.FinnhubAPIKey},
		{OpenAIEnv, c.OpenAIAPIKey},
	}
}

func mask(v string) string {
	if v == "" {
		return "<unset>"
	}
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
