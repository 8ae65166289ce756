package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Long-poll timeout in seconds
	UpdateTimeout int
	// Number of facts listed by /stats
	HardestFacts int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout: 60,
		HardestFacts:  5,
	}
}
