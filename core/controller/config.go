package controller

// Config holds connection settings for one control-plane instance.
type Config struct {
	// Host is the base URL, e.g. https://awx.example.com.
	Host string `mapstructure:"host" default:""`
	// Token is the bearer token used for every request.
	Token string `mapstructure:"token" default:""`
	// VerifyTLS enables certificate verification (off by default, these
	// installs commonly sit behind internal CAs).
	VerifyTLS bool `mapstructure:"verify_tls" default:"false"`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Organization is the numeric organization ID objects are created
	// under; only meaningful for the target instance.
	Organization int `mapstructure:"organization" default:"0"`
}

// Configured reports whether this instance has connection settings at
// all; the reference environment is optional.
func (c Config) Configured() bool {
	return c.Host != ""
}
