package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# investctl configuration

[service]
# Base URL of the investment service. All endpoints live under /api.
base_url = "http://localhost:8000"
request_timeout = "30s"

[dashboard]
# Symbols shown in the dashboard market panel.
symbols = ["AAPL", "MSFT", "BTC"]
signal_limit = 5
alert_limit = 5
data_interval = "1d"

[alerts]
# How often the background monitor polls for unread alerts.
poll_interval = "60s"

[ui]
color_enabled = true
date_format = "02 Jan 2006"
time_format = "15:04:05"

[logging]
level = "info"
console = false
file = true
max_size_mb = 50
max_backups = 5
max_age_days = 30
`

// writeTemplate writes a commented default config.toml if none exists.
func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0600)
}
