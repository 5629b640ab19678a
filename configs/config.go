package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	LinkedinClientID   string
	LinkedinClientSec  string
	LinkedinRedirect   string
	LinkedinAPIBase    string
	GeneratorURL       string
	SearchAPIKey       string
	SearchEngineID     string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	R2                 R2
	SecretKey          string
	CookieName         string
	CronSecret         string
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		LinkedinClientID:   getEnv("LINKEDIN_CLIENT_ID", ""),
		LinkedinClientSec:  getEnv("LINKEDIN_CLIENT_SECRET", ""),
		LinkedinRedirect:   getEnv("LINKEDIN_REDIRECT_URI", "http://localhost:3000/api/auth/linkedin/callback"),
		LinkedinAPIBase:    getEnv("LINKEDIN_API_BASE", "https://api.linkedin.com"),
		GeneratorURL:       getEnv("GENERATOR_URL", ""),
		SearchAPIKey:       getEnv("SEARCH_API_KEY", ""),
		SearchEngineID:     getEnv("SEARCH_ENGINE_ID", ""),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "postpilot_session"),
		CronSecret: getEnv("CRON_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
