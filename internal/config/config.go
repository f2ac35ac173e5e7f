package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey                   string  `yaml:"apiKey"`
		TranscriptionModel       string  `yaml:"transcriptionModel"`
		SummaryModel             string  `yaml:"summaryModel"`
		EvaluationModel          string  `yaml:"evaluationModel"`
		RecommendationModel      string  `yaml:"recommendationModel"`
		TranscriptionTemperature float32 `yaml:"transcriptionTemperature"`
		SummaryTemperature       float32 `yaml:"summaryTemperature"`
		EvaluationTemperature    float32 `yaml:"evaluationTemperature"`
		RecommendationTemp       float32 `yaml:"recommendationTemperature"`
		SummaryMaxTokens         int     `yaml:"summaryMaxTokens"`
		EvaluationMaxTokens      int     `yaml:"evaluationMaxTokens"`
		RecommendationMaxTokens  int     `yaml:"recommendationMaxTokens"`
	} `yaml:"openai"`

	Auth struct {
		// tenant -> api key
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	Snapshot struct {
		Path string `yaml:"path"`
	} `yaml:"snapshot"`
}

// Load baca file config.yaml, OPENAI_API_KEY dari env menang
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.RateLimit.Capacity == 0 {
		cfg.RateLimit.Capacity = 30
	}
	if cfg.RateLimit.RefillRate == 0 {
		cfg.RateLimit.RefillRate = 1
	}
	if cfg.Snapshot.Path == "" {
		cfg.Snapshot.Path = "./data/snapshots"
	}

	return &cfg, nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		sslMode,
	)
}
