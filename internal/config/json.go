package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors [Config] with a string-friendly Duration so files can
// write "15s" instead of nanosecond integers.
type jsonConfig struct {
	Supabase struct {
		URL            string   `json:"url"`
		AnonKey        string   `json:"anon_key"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"supabase,omitempty"`

	App struct {
		MarketingURL    string   `json:"marketing_url"`
		Version         string   `json:"version"`
		RefreshInterval Duration `json:"refresh_interval"`
	} `json:"app,omitempty"`

	Cache struct {
		Path string `json:"path"`
	} `json:"cache,omitempty"`
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg jsonConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &Config{
		Supabase: Supabase{
			URL:            jsonCfg.Supabase.URL,
			AnonKey:        jsonCfg.Supabase.AnonKey,
			RequestTimeout: time.Duration(jsonCfg.Supabase.RequestTimeout),
		},
		App: App{
			MarketingURL:    jsonCfg.App.MarketingURL,
			Version:         jsonCfg.App.Version,
			RefreshInterval: time.Duration(jsonCfg.App.RefreshInterval),
		},
		Cache: Cache{
			Path: jsonCfg.Cache.Path,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
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
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
