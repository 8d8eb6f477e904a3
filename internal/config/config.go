package config

import (
	"log"
	"os"
	"strconv"

	"ksg-support-be/pkg/database"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database database.GormConfig
	Auth     AuthConfig
	Ai       AIConfig
	Ingest   IngestConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	IndexTopicName     string
}

type AuthConfig struct {
	JWTSecret   string
	JWTExpHours int
	AdminEmails string // comma-separated allowlist
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "openai"
	EmbeddingModel    string
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string
	OllamaBaseURL     string
	OpenAIAPIKey      string
	AssistantName     string
	// Must match the width of the document_chunks embedding column.
	VectorDim int
}

type IngestConfig struct {
	MaxChunkChars int
	ChunkOverlap  int
	MinChunkChars int
	MinPageChars  int
	TopK          int
	UploadDir     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			IndexTopicName:     getEnv("INDEX_DOCUMENT_TOPIC_NAME", "INDEX_DOCUMENT"),
		},
		Database: database.GormConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "ksg_support"),
			UseTLS:   getEnvAsBool("DB_USE_TLS", false),
		},
		Auth: AuthConfig{
			// No fallback: JwtMiddleware verifies against the same env var, so a
			// default here would sign tokens the middleware rejects.
			JWTSecret:   getEnv("JWT_SECRET", ""),
			JWTExpHours: getEnvAsInt("JWT_EXP_HOURS", 24),
			AdminEmails: getEnv("ADMIN_EMAILS", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			AssistantName:     getEnv("ASSISTANT_NAME", "the Kenya School of Government customer support assistant"),
			VectorDim:         getEnvAsInt("VECTOR_DIM", 768),
		},
		Ingest: IngestConfig{
			MaxChunkChars: getEnvAsInt("CHUNK_MAX_CHARS", 1200),
			ChunkOverlap:  getEnvAsInt("CHUNK_OVERLAP", 0),
			MinChunkChars: getEnvAsInt("CHUNK_MIN_CHARS", 80),
			MinPageChars:  getEnvAsInt("PAGE_MIN_CHARS", 50),
			TopK:          getEnvAsInt("RETRIEVAL_TOP_K", 5),
			UploadDir:     getEnv("UPLOAD_DIR", "uploaded_pdfs"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
