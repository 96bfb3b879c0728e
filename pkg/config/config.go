package config

import (
	"fmt"
	"os"
)

const (
	DefaultGeminiHost  = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel = "gemini-2.5-flash-lite"
	DefaultOllamaHost  = "http://localhost:11434"

	DefaultComplianceCollection = "compliance"
	DefaultEmailsCollection     = "emails"

	DefaultMaxIterations = 10
)

// ConfigError reports an invalid or incomplete configuration. It aborts
// startup before any query can run.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// ProcessConfigPipeline applies defaults and validates the config.
func ProcessConfigPipeline(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ProcessConfigPipeline: config cannot be nil")
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ProcessConfigPipeline: validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) SetDefaults() {
	c.LLM.SetDefaults()
	c.Embedder.SetDefaults()
	c.Vector.SetDefaults()

	if c.Ledger.Path == "" {
		c.Ledger.Path = "data/transacoes_bancarias.csv"
	}

	if c.Corpora == nil {
		c.Corpora = make(map[string]*CorpusConfig)
	}
	if _, ok := c.Corpora[DefaultComplianceCollection]; !ok {
		c.Corpora[DefaultComplianceCollection] = &CorpusConfig{
			Path: "data/politica_compliance.txt",
		}
	}
	if _, ok := c.Corpora[DefaultEmailsCollection]; !ok {
		c.Corpora[DefaultEmailsCollection] = &CorpusConfig{
			Path: "data/emails.txt",
		}
	}

	// Compliance rules want focused hits, email threads want broader
	// context, hence the asymmetric chunking and top-k.
	compliance := c.Corpora[DefaultComplianceCollection]
	if compliance.ChunkSize == 0 {
		compliance.ChunkSize = 500
	}
	if compliance.ChunkOverlap == 0 {
		compliance.ChunkOverlap = 100
	}
	if compliance.TopK == 0 {
		compliance.TopK = 5
	}

	emails := c.Corpora[DefaultEmailsCollection]
	if emails.ChunkSize == 0 {
		emails.ChunkSize = 1000
	}
	if emails.ChunkOverlap == 0 {
		emails.ChunkOverlap = 200
	}
	if emails.TopK == 0 {
		emails.TopK = 7
	}
	if len(emails.Separators) == 0 {
		emails.Separators = []string{
			"\n-------------------------------------------------------------------------------\n",
			"\n\n", "\n", " ",
		}
	}

	for _, corpus := range c.Corpora {
		if corpus.TopK == 0 {
			corpus.TopK = 5
		}
		if corpus.ChunkSize == 0 {
			corpus.ChunkSize = 500
		}
	}

	if c.Agent.MaxIterations == 0 {
		c.Agent.MaxIterations = DefaultMaxIterations
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
}

func (c *LLMProviderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "gemini"
	}
	switch c.Type {
	case "gemini":
		if c.Model == "" {
			c.Model = DefaultGeminiModel
		}
		if c.Host == "" {
			c.Host = DefaultGeminiHost
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
	case "ollama":
		if c.Model == "" {
			c.Model = "llama3.2"
		}
		if c.Host == "" {
			c.Host = DefaultOllamaHost
		}
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Timeout == 0 {
		c.Timeout = 120
	}
	// Temperature intentionally defaults to 0 for repeatable sampling.
}

func (c *EmbedderProviderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "ollama"
	}
	switch c.Type {
	case "ollama":
		if c.Model == "" {
			c.Model = "nomic-embed-text"
		}
		if c.Host == "" {
			c.Host = DefaultOllamaHost
		}
		if c.Dimension == 0 {
			c.Dimension = 768
		}
	case "openai":
		if c.Model == "" {
			c.Model = "text-embedding-3-small"
		}
		if c.Host == "" {
			c.Host = "https://api.openai.com"
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if c.Dimension == 0 {
			c.Dimension = 1536
		}
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

func (c *VectorStoreConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "chromem"
	}
	if c.Type == "chromem" && c.PersistPath == "" {
		c.PersistPath = ".auditor/vectors"
	}
	if c.Type == "qdrant" {
		if c.Host == "" {
			c.Host = "localhost"
		}
		if c.Port == 0 {
			c.Port = 6334
		}
	}
}

func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Embedder.Validate(); err != nil {
		return err
	}
	if c.Ledger.Path == "" {
		return NewConfigError("ledger.path", "ledger file path is required")
	}
	for name, corpus := range c.Corpora {
		if corpus.Path == "" {
			return NewConfigError("corpora."+name+".path", "corpus file path is required")
		}
		if corpus.ChunkOverlap >= corpus.ChunkSize {
			return NewConfigError("corpora."+name, "chunk_overlap must be smaller than chunk_size")
		}
	}
	if c.Agent.MaxIterations < 1 {
		return NewConfigError("agent.max_iterations", "must be at least 1")
	}
	return nil
}

func (c *LLMProviderConfig) Validate() error {
	switch c.Type {
	case "gemini":
		if c.APIKey == "" {
			return NewConfigError("llm.api_key",
				"Gemini API key is required (set GEMINI_API_KEY or GOOGLE_API_KEY)")
		}
	case "ollama":
		// No credentials required for local inference.
	default:
		return NewConfigError("llm.type", fmt.Sprintf("unsupported provider: %s", c.Type))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return NewConfigError("llm.temperature", "must be between 0 and 2")
	}
	return nil
}

func (c *EmbedderProviderConfig) Validate() error {
	switch c.Type {
	case "ollama":
	case "openai":
		if c.APIKey == "" {
			return NewConfigError("embedder.api_key", "OpenAI API key is required")
		}
	default:
		return NewConfigError("embedder.type", fmt.Sprintf("unsupported provider: %s", c.Type))
	}
	return nil
}
