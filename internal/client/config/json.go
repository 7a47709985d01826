package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/studyvault/noteguard/internal/flagx"
	"github.com/studyvault/noteguard/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files; interval fields accept both "20s" strings and integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL     string         `json:"server_base_url"`
	UserID            string         `json:"user_id"`
	DatabasePath      string         `json:"database_path"`
	HeartbeatInterval timex.Duration `json:"heartbeat_interval"`
	PollInterval      timex.Duration `json:"poll_interval"`
	PollBudget        timex.Duration `json:"poll_budget"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags, if any.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerBaseURL = c.ServerBaseURL
	config.UserID = c.UserID
	config.DatabasePath = c.DatabasePath
	config.HeartbeatInterval = time.Duration(c.HeartbeatInterval.Duration)
	config.PollInterval = time.Duration(c.PollInterval.Duration)
	config.PollBudget = time.Duration(c.PollBudget.Duration)
}
