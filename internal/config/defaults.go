package config

// Default reply templates. These mirror the tone the support team ships with;
// operators override them in config without touching ranking.
const (
	defaultHighTemplate   = "%s"
	defaultMediumTemplate = "Based on similar queries, here's what I found:\n\n%s\n\nDoes this help with your question?"
	defaultLowTemplate    = "I found some related information that might be helpful:\n\n%s\n\nIf this doesn't fully answer your question, please let me know and I can help you connect with our support team."
	defaultContextSuffix  = "\n\nFor additional context, you might also find this helpful: %s"
	defaultFallbackReply  = "I understand your question, but I don't have a specific answer in my current knowledge base. However, I'd be happy to help you connect with our support team who can provide personalized assistance with your inquiry. Is there anything else I can help you with in the meantime?"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./ai_data/support.db"
	}
	if cfg.Datasets.UploadsDir == "" {
		cfg.Datasets.UploadsDir = "./uploads"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "mock"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "all-MiniLM-L6-v2"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Retrieval.Strategy == "" {
		cfg.Retrieval.Strategy = "lexical"
	}
	if cfg.Retrieval.IndexType == "" {
		cfg.Retrieval.IndexType = "memory"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.MinSimilarity == 0 {
		cfg.Retrieval.MinSimilarity = 0.05
	}
	if cfg.Retrieval.HighConfidence == 0 {
		cfg.Retrieval.HighConfidence = 0.7
	}
	if cfg.Retrieval.MediumConfidence == 0 {
		cfg.Retrieval.MediumConfidence = 0.4
	}
	if cfg.Retrieval.SubstringBoost == 0 {
		cfg.Retrieval.SubstringBoost = 0.3
	}
	if cfg.Retrieval.KeywordBoost == 0 {
		cfg.Retrieval.KeywordBoost = 0.1
	}
	if cfg.Retrieval.BoostKeywords == nil {
		cfg.Retrieval.BoostKeywords = []string{
			"login", "password", "account", "payment",
			"refund", "cancel", "upgrade", "subscription",
		}
	}
	if cfg.Retrieval.SmallTalk == nil {
		cfg.Retrieval.SmallTalk = map[string]string{
			"hello":             "Hello! I'm your AI assistant. How can I help you today?",
			"good morning":      "Good morning! How can I assist you today?",
			"good evening":      "Good evening! What can I help you with?",
			"how are you":       "I'm doing great and ready to help! What can I assist you with?",
			"what is your name": "I'm your AI support assistant. I'm here to help with any questions you have.",
			"who are you":       "I'm an AI assistant trained to help with customer support and general inquiries.",
			"thank you":         "You're welcome! Is there anything else I can help you with?",
			"thanks":            "Happy to help! Let me know if you need anything else.",
			"goodbye":           "Take care! I'm here whenever you need help.",
		}
	}
	if cfg.Templates.High == "" {
		cfg.Templates.High = defaultHighTemplate
	}
	if cfg.Templates.Medium == "" {
		cfg.Templates.Medium = defaultMediumTemplate
	}
	if cfg.Templates.Low == "" {
		cfg.Templates.Low = defaultLowTemplate
	}
	if cfg.Templates.Fallback == "" {
		cfg.Templates.Fallback = defaultFallbackReply
	}
	if cfg.Templates.Context == "" {
		cfg.Templates.Context = defaultContextSuffix
	}
	if cfg.Templates.PreviewLength == 0 {
		cfg.Templates.PreviewLength = 120
	}
}
