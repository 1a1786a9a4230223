package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug            bool   `envconfig:"debug"`
	Port             int    `envconfig:"port" default:"8080"`
	Env              string `envconfig:"env"`
	PostgresHost     string `envconfig:"postgres_host"`
	PostgresUser     string `envconfig:"postgres_user"`
	PostgresDB       string `envconfig:"postgres_db"`
	PostgresPort     int    `envconfig:"postgres_port"`
	PostgresPassword string `envconfig:"postgres_password"`
	JWTSecret        string `envconfig:"jwt_secret"`

	// InsecureDemoMode stores and compares credentials in plain text and
	// enables the two built-in demo accounts. Prototype behavior only.
	InsecureDemoMode bool `envconfig:"insecure_demo_mode"`

	GeminiApiKey  string `envconfig:"gemini_api_key"`
	GeminiBaseUrl string `envconfig:"gemini_base_url" default:"https://generativelanguage.googleapis.com"`

	AwsRegion       string `envconfig:"aws_region"`
	AwsAccessKeyID  string `envconfig:"aws_access_key_id"`
	AwsSecretKey    string `envconfig:"aws_secret_access_key"`
	S3Bucket        string `envconfig:"aws_s3_bucket"`
	MailgunApiKey   string `envconfig:"mg_public_api_key"`
	MgDomain        string `envconfig:"mg_domain"`
	MgEmailFrom     string `envconfig:"email_from"`
	AccessAllowFrom string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("smartcity", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
