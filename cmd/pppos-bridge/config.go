package main

import (
	"encoding/json"
	"os"
)

// Config holds everything pppos-bridge needs to bring up one PPPoS link.
// Every field can be set from a CLI flag or overridden in bulk by a JSON
// file passed via -c.
type Config struct {
	Device   string `json:"device"`
	Baud     int    `json:"baud"`
	Username string `json:"username"`
	Password string `json:"password"`
	RxBuf    int    `json:"rxbuf"`
	TxBuf    int    `json:"txbuf"`
	Log      string `json:"log"`
	Quiet    bool   `json:"quiet"`
	Echo     bool   `json:"echo"`
}

func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}
