package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "NEWS_SCANNER_CONFIG"
	elasticsearchEnv = "ELASTICSEARCH_ADDR"
	llmAPIKeyEnv     = "LLM_API_KEY"
	llmModelEnv      = "LLM_MODEL"
	newsAPIKeyEnv    = "NEWSAPI_API_KEY"
	smtpUserEnv      = "SMTP_USER"
	smtpPasswordEnv  = "SMTP_PASSWORD"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig       `yaml:"logging"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	LLM           LLMConfig           `yaml:"llm"`
	NewsAPI       NewsAPIConfig       `yaml:"newsapi"`
	SMTP          SMTPConfig          `yaml:"smtp"`
	Sources       []SourceConfig      `yaml:"sources"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ElasticsearchConfig describes the document store connection and indices.
type ElasticsearchConfig struct {
	Addr           string `yaml:"addr"`
	NewsIndex      string `yaml:"newsIndex"`
	CompaniesIndex string `yaml:"companiesIndex"`
	UsersIndex     string `yaml:"usersIndex"`
	MetadataIndex  string `yaml:"metadataIndex"`
}

// LLMConfig defines how to contact the chat-completions backend.
type LLMConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"apiKey"`
	RequestsPerMin float64 `yaml:"requestsPerMin"`
}

// NewsAPIConfig holds the news-search provider credentials.
type NewsAPIConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// SMTPConfig wires outbound newsletter delivery.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// SourceConfig describes a single candidate origin with its reader strategy.
type SourceConfig struct {
	Name    string `yaml:"name"`
	Reader  string `yaml:"reader"`
	FeedURL string `yaml:"feedUrl"`
	Query   string `yaml:"query"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(elasticsearchEnv); v != "" {
		c.Elasticsearch.Addr = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.NewsAPI.APIKey = v
	}

	if v := os.Getenv(smtpUserEnv); v != "" {
		c.SMTP.User = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.SMTP.Password = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Elasticsearch.Addr != "" {
		base.Elasticsearch.Addr = override.Elasticsearch.Addr
	}
	if override.Elasticsearch.NewsIndex != "" {
		base.Elasticsearch.NewsIndex = override.Elasticsearch.NewsIndex
	}
	if override.Elasticsearch.CompaniesIndex != "" {
		base.Elasticsearch.CompaniesIndex = override.Elasticsearch.CompaniesIndex
	}
	if override.Elasticsearch.UsersIndex != "" {
		base.Elasticsearch.UsersIndex = override.Elasticsearch.UsersIndex
	}
	if override.Elasticsearch.MetadataIndex != "" {
		base.Elasticsearch.MetadataIndex = override.Elasticsearch.MetadataIndex
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.RequestsPerMin > 0 {
		base.LLM.RequestsPerMin = override.LLM.RequestsPerMin
	}

	if override.NewsAPI.Endpoint != "" {
		base.NewsAPI.Endpoint = override.NewsAPI.Endpoint
	}
	if override.NewsAPI.APIKey != "" {
		base.NewsAPI.APIKey = override.NewsAPI.APIKey
	}

	if override.SMTP.Host != "" {
		base.SMTP.Host = override.SMTP.Host
	}
	if override.SMTP.Port > 0 {
		base.SMTP.Port = override.SMTP.Port
	}
	if override.SMTP.User != "" {
		base.SMTP.User = override.SMTP.User
	}
	if override.SMTP.Password != "" {
		base.SMTP.Password = override.SMTP.Password
	}
	if override.SMTP.From != "" {
		base.SMTP.From = override.SMTP.From
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{Interval: 24 * time.Hour, Timezone: defaultTimezone, location: tz},
		Elasticsearch: ElasticsearchConfig{
			Addr:           "http://localhost:9200",
			NewsIndex:      "news",
			CompaniesIndex: "companies",
			UsersIndex:     "users",
			MetadataIndex:  "app_metadata",
		},
		LLM: LLMConfig{
			Endpoint:       "http://localhost:11434/v1/chat/completions",
			Model:          "llama3",
			APIKey:         "",
			RequestsPerMin: 30,
		},
		NewsAPI: NewsAPIConfig{
			Endpoint: "https://newsapi.org/v2/everything",
			APIKey:   "",
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
			From: "",
		},
		Sources: []SourceConfig{
			{
				Name:    "expansion-emprendedores",
				Reader:  "rss",
				FeedURL: "https://e00-expansion.uecdn.es/rss/expansion-empleo/emprendedores.xml",
			},
			{
				Name:   "newsapi-sede",
				Reader: "newsapi",
				Query:  `"nueva sede" empleados`,
			},
		},
	}
}
