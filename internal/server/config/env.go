package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// envReader looks keys up in the process environment first and then in the
// values read from a dotenv file.
type envReader struct {
	file map[string]string
}

func (r envReader) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := r.file[key]
	return v, ok
}

func (r envReader) str(key string, dst *string) {
	if v, ok := r.lookup(key); ok {
		*dst = v
	}
}

func (r envReader) integer(key string, dst *int) {
	if v, ok := r.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func (r envReader) int64(key string, dst *int64) {
	if v, ok := r.lookup(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func (r envReader) minutes(key string, dst *time.Duration) {
	var n int
	if _, ok := r.lookup(key); !ok {
		return
	}
	r.integer(key, &n)
	*dst = time.Duration(n) * time.Minute
}

// readEnvFile loads the dotenv file named by -env-file, or ".env" when the
// flag is absent. A missing default file is not an error; a missing file
// that was asked for explicitly is.
func readEnvFile() map[string]string {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		panic(err)
	}
	return values
}

// parseEnv overlays Config with environment variables.
//
// Recognised variables:
//
//	HTTP_ADDR, DATABASE_DSN, SECRET_KEY, ALGORITHM,
//	ACCESS_TOKEN_EXPIRE_MINUTES, BCRYPT_COST, FRONTEND_ORIGIN, LOG_LEVEL,
//	LOGIN_RATE_LIMIT, LOGIN_RATE_BURST, STORAGE_BACKEND,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT,
//	RESUME_MAX_SIZE, RESUME_URL_VALIDITY_MINUTES, DEFAULT_PHONE_REGION
//
// Invalid numbers panic, like the JSON and flag layers.
func parseEnv(config *Config) {
	r := envReader{file: readEnvFile()}

	r.str("HTTP_ADDR", &config.EndpointAddrHTTP)
	r.str("DATABASE_DSN", &config.DatabaseDSN)
	r.str("SECRET_KEY", &config.SecretKey)
	r.str("ALGORITHM", &config.SigningAlgorithm)
	r.minutes("ACCESS_TOKEN_EXPIRE_MINUTES", &config.AccessTokenValidityDuration)
	r.integer("BCRYPT_COST", &config.BcryptCost)
	r.str("FRONTEND_ORIGIN", &config.FrontendOrigin)
	r.str("LOG_LEVEL", &config.LogLevel)
	r.integer("LOGIN_RATE_LIMIT", &config.LoginRateLimit)
	r.integer("LOGIN_RATE_BURST", &config.LoginRateBurst)
	r.str("STORAGE_BACKEND", &config.StorageBackend)
	r.str("S3_ROOT_USER", &config.S3RootUser)
	r.str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	r.str("S3_BUCKET", &config.S3Bucket)
	r.str("S3_REGION", &config.S3Region)
	r.str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	r.int64("RESUME_MAX_SIZE", &config.ResumeMaxSize)
	r.minutes("RESUME_URL_VALIDITY_MINUTES", &config.ResumeURLValidityDuration)
	r.str("DEFAULT_PHONE_REGION", &config.DefaultPhoneRegion)
}
