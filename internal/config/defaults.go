package config

// DefaultConfig returns the configuration defaults applied before the
// YAML file and environment overrides are loaded.
func DefaultConfig() *Config {
	return &Config{
		Port:           5000,
		DataDir:        "data",
		ClientURL:      "http://localhost:5173",
		EmbeddingModel: "text-embedding-3-small",
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}
}
