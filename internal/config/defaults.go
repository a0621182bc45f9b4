package config

// DefaultConfig returns the configuration used when no config file is
// present: the public OpenTimestamps calendar servers, a two-explorer
// block-lookup chain, and the protocol limits from pkg/ots.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Calendars: Calendars{
			Servers: []string{
				"https://alice.btc.calendar.opentimestamps.org",
				"https://bob.btc.calendar.opentimestamps.org",
			},
			SubmitTimeoutSec:  10,
			UpgradeTimeoutSec: 10,
		},
		BlockExplorers: BlockExplorers{
			BaseURLs: []string{
				"https://blockstream.info/api",
				"https://mempool.space/api",
			},
			TimeoutSec: 10,
		},
		Limits: Limits{
			MaxDepth:                 256,
			MaxVarbytes:              1 << 20,
			MaxCalendarResponseBytes: 64 << 10,
		},
		Receipts: ReceiptsConfig{
			Enabled: false,
			Path:    "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
