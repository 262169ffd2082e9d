package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files. Durations
// are accepted as strings ("30s") or as nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		Environment       string   `json:"environment"`
		Version           string   `json:"version"`
		PublicURL         string   `json:"public_url"`
		TokenSignKey      string   `json:"token_sign_key"`
		TokenIssuer       string   `json:"token_issuer"`
		TokenDuration     Duration `json:"token_duration"`
		ResetTokenTTL     Duration `json:"reset_token_ttl"`
		ResetTokenHashKey string   `json:"reset_token_hash_key"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		AllowedOrigins  []string `json:"allowed_origins"`
		RateLimit       struct {
			RequestsPerMinute     int `json:"requests_per_minute"`
			ForgotPasswordPerHour int `json:"forgot_password_per_hour"`
		} `json:"rate_limit,omitempty"`
	} `json:"server,omitempty"`

	Mail struct {
		SendGridAPIKey  string   `json:"sendgrid_api_key"`
		SendGridFrom    string   `json:"sendgrid_from"`
		SendGridBaseURL string   `json:"sendgrid_base_url"`
		SMTPHost        string   `json:"smtp_host"`
		SMTPPort        int      `json:"smtp_port"`
		SMTPUsername    string   `json:"smtp_username"`
		SMTPPassword    string   `json:"smtp_password"`
		SMTPFrom        string   `json:"smtp_from"`
		FromName        string   `json:"from_name"`
		Timeout         Duration `json:"timeout"`
	} `json:"mail,omitempty"`

	TMDB struct {
		APIKey  string   `json:"api_key"`
		BaseURL string   `json:"base_url"`
		Timeout Duration `json:"timeout"`
	} `json:"tmdb,omitempty"`

	Redis struct {
		Address  string `json:"address"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis,omitempty"`

	Broker struct {
		URL   string `json:"url"`
		Queue string `json:"queue"`
	} `json:"amqp,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Environment:       jsonCfg.App.Environment,
			Version:           jsonCfg.App.Version,
			PublicURL:         jsonCfg.App.PublicURL,
			TokenSignKey:      jsonCfg.App.TokenSignKey,
			TokenIssuer:       jsonCfg.App.TokenIssuer,
			TokenDuration:     time.Duration(jsonCfg.App.TokenDuration),
			ResetTokenTTL:     time.Duration(jsonCfg.App.ResetTokenTTL),
			ResetTokenHashKey: jsonCfg.App.ResetTokenHashKey,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
			AllowedOrigins:  jsonCfg.Server.AllowedOrigins,
			RateLimit: RateLimit{
				RequestsPerMinute:     jsonCfg.Server.RateLimit.RequestsPerMinute,
				ForgotPasswordPerHour: jsonCfg.Server.RateLimit.ForgotPasswordPerHour,
			},
		},
		Mail: Mail{
			SendGridAPIKey:  jsonCfg.Mail.SendGridAPIKey,
			SendGridFrom:    jsonCfg.Mail.SendGridFrom,
			SendGridBaseURL: jsonCfg.Mail.SendGridBaseURL,
			SMTPHost:        jsonCfg.Mail.SMTPHost,
			SMTPPort:        jsonCfg.Mail.SMTPPort,
			SMTPUsername:    jsonCfg.Mail.SMTPUsername,
			SMTPPassword:    jsonCfg.Mail.SMTPPassword,
			SMTPFrom:        jsonCfg.Mail.SMTPFrom,
			FromName:        jsonCfg.Mail.FromName,
			Timeout:         time.Duration(jsonCfg.Mail.Timeout),
		},
		TMDB: TMDB{
			APIKey:  jsonCfg.TMDB.APIKey,
			BaseURL: jsonCfg.TMDB.BaseURL,
			Timeout: time.Duration(jsonCfg.TMDB.Timeout),
		},
		Redis: Redis{
			Address:  jsonCfg.Redis.Address,
			Password: jsonCfg.Redis.Password,
			DB:       jsonCfg.Redis.DB,
		},
		Broker: Broker{
			URL:   jsonCfg.Broker.URL,
			Queue: jsonCfg.Broker.Queue,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
