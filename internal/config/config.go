package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	Gemini   GeminiConfig
	Image    ImageStoreConfig
	Campaign CampaignStoreConfig

	// StageTimeout bounds a single agent invocation. A hung model call
	// fails the stage instead of hanging the wizard.
	StageTimeout time.Duration
}

type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	RPM        int
	RPD        int
	TPM        int
}

type ImageStoreConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type CampaignStoreConfig struct {
	// PostgresDSN selects the Postgres backend when non-empty;
	// otherwise the store falls back to the JSON file at FilePath.
	PostgresDSN string
	FilePath    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:         *port,
		Env:          env,
		Gemini:       loadGeminiConfig(),
		Image:        loadImageStoreConfig(env),
		Campaign:     loadCampaignStoreConfig(),
		StageTimeout: loadStageTimeout(),
	}, nil
}

func loadGeminiConfig() GeminiConfig {
	return GeminiConfig{
		APIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		TextModel:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_TEXT_MODEL")), "gemini-2.5-flash"),
		ImageModel: firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_IMAGE_MODEL")), "gemini-2.5-flash-image"),
		RPM:        readInt("GEMINI_RPM"),
		RPD:        readInt("GEMINI_RPD"),
		TPM:        readInt("GEMINI_TPM"),
	}
}

func loadImageStoreConfig(env string) ImageStoreConfig {
	endpoint := resolveImageEndpoint(env)
	return ImageStoreConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "adforge-creatives"),
		UseSSL:    resolveImageUseSSL(env),
	}
}

func resolveImageEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveImageUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func loadCampaignStoreConfig() CampaignStoreConfig {
	return CampaignStoreConfig{
		PostgresDSN: strings.TrimSpace(os.Getenv("CAMPAIGN_STORE_PG_DSN")),
		FilePath:    firstNonEmpty(strings.TrimSpace(os.Getenv("CAMPAIGN_STORE_PATH")), "campaigns.json"),
	}
}

func loadStageTimeout() time.Duration {
	raw := strings.TrimSpace(os.Getenv("STAGE_TIMEOUT"))
	if raw == "" {
		return 2 * time.Minute
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

func readInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
