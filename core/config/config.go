// Package config loads the jobly service configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/relabs-tech/jobly/core/logger"
)

// Config is the service configuration.
//
// Use POSTGRES="host=localhost port=5432 user=postgres dbname=postgres sslmode=disable"
// and POSTGRES_PASSWORD="docker" for a local docker postgres.
type Config struct {
	Postgres         string `env:"POSTGRES,required" description:"the connection string for the Postgres DB without password"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,optional" description:"password to the Postgres DB"`
	Schema           string `env:"SCHEMA,default=jobly" description:"the database schema"`
	Port             int    `env:"PORT,default=3000" description:"the port the HTTP server listens on"`
	LogLevel         string `env:"LOG_LEVEL,default=info" description:"the log level, one of trace, debug, info, warning, error"`

	SecretKey        string `env:"SECRET_KEY,default=secret-dev" description:"the HS256 key for session tokens"`
	BcryptWorkFactor int    `env:"BCRYPT_WORK_FACTOR,default=12" description:"the bcrypt cost for password hashes"`

	KafkaBrokers string `env:"KAFKA_BROKERS,optional" description:"comma separated Kafka brokers for resource notifications"`
	KafkaTopic   string `env:"KAFKA_TOPIC,default=jobly_resource_notification" description:"the Kafka topic for resource notifications"`
	SQSQueueURL  string `env:"SQS_QUEUE_URL,optional" description:"the SQS queue for resource notifications"`

	AWSRegion     string `env:"AWS_REGION,optional" description:"the AWS region"`
	AWSAccessID   string `env:"AWS_ACCESS_ID,optional" description:"the AWS access key id"`
	AWSAccessKey  string `env:"AWS_ACCESS_KEY,optional" description:"the AWS secret access key"`
	AWSBucketName string `env:"AWS_BUCKET_NAME,optional" description:"the S3 bucket for company logos. Logos are stored on the local filesystem if empty"`
	AWSKeyPrefix  string `env:"AWS_KEY_PREFIX,default=logos" description:"the key prefix for company logos in the S3 bucket"`

	LogoPath      string `env:"LOGO_PATH,default=./logos" description:"the directory for company logos on the local filesystem"`
	LogoPublicURL string `env:"LOGO_PUBLIC_URL,default=http://localhost:3000/logos" description:"the public base URL of logos on the local filesystem"`
}

// Load reads an optional .env file from the working directory and decodes the
// configuration from the environment. Variables already set in the environment
// take precedence over the .env file.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is like Load but reads the given dotenv files. Missing files are skipped.
func LoadFiles(filenames ...string) (*Config, error) {
	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Default().Debugln("no dotenv file", filename)
				continue
			}
			return nil, err
		}
	}
	var config Config
	if err := envdecode.StrictDecode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Brokers returns the configured Kafka brokers
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); len(b) > 0 {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
