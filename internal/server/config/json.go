package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobboard/internal/flagx"
	"github.com/dmitrijs2005/jobboard/internal/timex"
)

// JsonConfig is the on-disk JSON shape of Config. Durations use
// timex.Duration so both "240h" and integer nanoseconds are accepted.
// Keys that are absent leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SigningAlgorithm            string         `json:"signing_algorithm"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	FrontendOrigin              string         `json:"frontend_origin"`
	LogLevel                    string         `json:"log_level"`
	LoginRateLimit              int            `json:"login_rate_limit"`
	LoginRateBurst              int            `json:"login_rate_burst"`
	StorageBackend              string         `json:"storage_backend"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ResumeMaxSize               int64          `json:"resume_max_size"`
	ResumeURLValidityDuration   timex.Duration `json:"resume_url_validity_duration"`
	DefaultPhoneRegion          string         `json:"default_phone_region"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setNumber[T int | int64](dst *T, v T) {
	if v != 0 {
		*dst = v
	}
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag. Without the flag nothing happens. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SigningAlgorithm, c.SigningAlgorithm)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setNumber(&config.BcryptCost, c.BcryptCost)
	setString(&config.FrontendOrigin, c.FrontendOrigin)
	setString(&config.LogLevel, c.LogLevel)
	setNumber(&config.LoginRateLimit, c.LoginRateLimit)
	setNumber(&config.LoginRateBurst, c.LoginRateBurst)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setNumber(&config.ResumeMaxSize, c.ResumeMaxSize)
	if c.ResumeURLValidityDuration.Duration != 0 {
		config.ResumeURLValidityDuration = c.ResumeURLValidityDuration.Duration
	}
	setString(&config.DefaultPhoneRegion, c.DefaultPhoneRegion)
}
