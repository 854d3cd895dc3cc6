package config

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string
	LocalStoreDir   string
	InboxDir        string
	CorpusOutPath   string
	CourseTablePath string

	WorkerConcurrency   int
	ForceOCR            bool
	MinQuestionLength   int
	SimilarityThreshold float64

	Tools ToolPaths
}

// ToolPaths holds the resolved locations of the external PDF and OCR binaries.
// Resolution happens once at startup; an empty path means the tool was not
// found anywhere and any stage needing it must fail with a dependency error.
type ToolPaths struct {
	PDFInfo   string
	PDFToText string
	PDFToPPM  string
	Tesseract string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:                getEnv("PORT", "8080"),
		CORSAllowOrigin:     splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:                 env,
		DatabaseURL:         dbURL,
		LocalStoreDir:       getEnv("LOCAL_STORE_DIR", "./data"),
		InboxDir:            getEnv("EXAM_INBOX_DIR", "./data/exam_downloads"),
		CorpusOutPath:       getEnv("CORPUS_OUT_PATH", "./data/exam_corpus.json"),
		CourseTablePath:     getEnv("COURSE_TABLE_PATH", ""),
		WorkerConcurrency:   getEnvInt("WORKER_CONCURRENCY", 4),
		ForceOCR:            getEnvBool("FORCE_OCR", false),
		MinQuestionLength:   getEnvInt("MIN_QUESTION_LENGTH", 20),
		SimilarityThreshold: getEnvFloat("DEDUP_SIMILARITY_THRESHOLD", 0.85),
		Tools:               ResolveToolPaths(),
	}
}

// ResolveToolPaths locates the poppler and tesseract binaries, checking in
// order: explicit env var, known install directories, then PATH. Missing
// tools resolve to "" so callers can report a dependency error instead of
// probing ambient process state at call time.
func ResolveToolPaths() ToolPaths {
	popplerDir := strings.TrimSpace(os.Getenv("POPPLER_PATH"))
	return ToolPaths{
		PDFInfo:   resolveTool("PDFINFO_CMD", "pdfinfo", popplerDir),
		PDFToText: resolveTool("PDFTOTEXT_CMD", "pdftotext", popplerDir),
		PDFToPPM:  resolveTool("PDFTOPPM_CMD", "pdftoppm", popplerDir),
		Tesseract: resolveTool("TESSERACT_CMD", "tesseract", ""),
	}
}

func resolveTool(envKey, binary, dirHint string) string {
	if explicit := strings.TrimSpace(os.Getenv(envKey)); explicit != "" {
		return explicit
	}
	candidates := []string{}
	if dirHint != "" {
		candidates = append(candidates, filepath.Join(dirHint, binary))
	}
	candidates = append(candidates,
		filepath.Join("/usr/bin", binary),
		filepath.Join("/usr/local/bin", binary),
		filepath.Join("/opt/homebrew/bin", binary),
	)
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	if fromPath, err := exec.LookPath(binary); err == nil {
		return fromPath
	}
	return ""
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
