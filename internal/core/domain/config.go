package domain

// ResultCount is the number of organic results requested per lookup.
const ResultCount = 100

// Default provider and server values.
const (
	DefaultProviderBaseURL   = "https://google.serper.dev"
	DefaultRegion            = "tr"
	DefaultLanguage          = "tr"
	DefaultTimeoutSeconds    = 30
	DefaultRequestsPerSecond = 2.0
	DefaultServerPort        = 3000
	DefaultPacingSeconds     = 3
)

// ProviderConfig configures the ranking provider.
type ProviderConfig struct {
	APIKey            string
	BaseURL           string
	Region            string
	Language          string
	TimeoutSeconds    int
	RequestsPerSecond float64
}

// TelegramConfig configures report delivery to a Telegram chat.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Enabled reports whether both the token and the chat are set.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// AppConfig is the resolved runtime configuration.
type AppConfig struct {
	Provider ProviderConfig
	Telegram TelegramConfig

	// ServerPort is the port of the health endpoint.
	ServerPort int

	// PacingSeconds is the pause between domains in an automatic cycle.
	PacingSeconds int

	// DataDir holds the state database. Empty means the default location.
	DataDir string

	// LogFile receives the operational event log. Empty means the default location.
	LogFile string
}

// DefaultAppConfig returns the configuration used when nothing is set.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Provider: ProviderConfig{
			BaseURL:           DefaultProviderBaseURL,
			Region:            DefaultRegion,
			Language:          DefaultLanguage,
			TimeoutSeconds:    DefaultTimeoutSeconds,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		ServerPort:    DefaultServerPort,
		PacingSeconds: DefaultPacingSeconds,
	}
}
