package config

// Config is the top-level voicedesk configuration, corresponding to voicedesk.yml.
type Config struct {
	Port       int    `yaml:"port" koanf:"port"`
	DataDir    string `yaml:"data_dir" koanf:"data_dir"`
	ClientURL  string `yaml:"client_url" koanf:"client_url"`
	AdminToken string `yaml:"admin_token" koanf:"admin_token"`
	WebsiteURL string `yaml:"website_url" koanf:"website_url"`

	OpenAIAPIKey   string `yaml:"openai_api_key" koanf:"openai_api_key"`
	EmbeddingModel string `yaml:"embedding_model" koanf:"embedding_model"`

	Vapi   VapiConfig   `yaml:"vapi" koanf:"vapi"`
	Twilio TwilioConfig `yaml:"twilio" koanf:"twilio"`
	SMTP   SMTPConfig   `yaml:"smtp" koanf:"smtp"`
}

// VapiConfig holds voice-platform credentials.
type VapiConfig struct {
	PrivateKey  string `yaml:"private_key" koanf:"private_key"`
	AssistantID string `yaml:"assistant_id" koanf:"assistant_id"`
}

// TwilioConfig holds SMS credentials. All three values are required
// for sending; otherwise SMS automation is disabled.
type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" koanf:"account_sid"`
	AuthToken  string `yaml:"auth_token" koanf:"auth_token"`
	FromNumber string `yaml:"from_number" koanf:"from_number"`
}

// SMTPConfig holds follow-up email credentials.
type SMTPConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
	User string `yaml:"user" koanf:"user"`
	Pass string `yaml:"pass" koanf:"pass"`
}
