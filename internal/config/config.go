package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Billing  BillingConfig  `mapstructure:"billing"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// BaseURL is the externally reachable address of the server. It is used to
	// build the payment callback URL.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// AllowedOrigins configures CORS for browser clients of /generate.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`

	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider      string `mapstructure:"provider"        validate:"required,oneof=gemini openai"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key"  validate:"required_if=Provider gemini"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"  validate:"required_if=Provider openai"`
	OpenAIBaseURL string `mapstructure:"openai_base_url" validate:"omitempty,url"`
	ModelName     string `mapstructure:"model_name"      validate:"required"`

	// PromptTemplateDir optionally overrides the built-in prompt templates.
	// It may contain flashcards.tmpl and/or quiz.tmpl.
	PromptTemplateDir string `mapstructure:"prompt_template_dir"`

	MaxRetries        int `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	FlashcardCount    int `mapstructure:"flashcard_count"     validate:"gt=0,lte=50"`
	QuizQuestionCount int `mapstructure:"quiz_question_count" validate:"gt=0,lte=50"`
}

// BillingConfig contains free-tier quota and subscription payment settings.
type BillingConfig struct {
	PaystackSecretKey string `mapstructure:"paystack_secret_key" validate:"required"`
	PaystackBaseURL   string `mapstructure:"paystack_base_url"   validate:"required,url"`
	FreePromptLimit   int    `mapstructure:"free_prompt_limit"   validate:"gte=0"`

	// Price is the subscription price in major currency units, e.g. "299".
	Price            string `mapstructure:"price"             validate:"required,numeric"`
	Currency         string `mapstructure:"currency"          validate:"required,len=3"`
	CurrencyLabel    string `mapstructure:"currency_label"    validate:"required"`
	SubscriptionDays int    `mapstructure:"subscription_days" validate:"gt=0"`
}
