package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DBConfig      `yaml:"database"`
	EmbedLLM LLMConfig     `yaml:"embed_llm"`
	ChatLLM  LLMConfig     `yaml:"chat_llm"`
	RAG      RAGConfig     `yaml:"rag"`
	Uploads  UploadsConfig `yaml:"uploads"`
}

type DBConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Driver   string `yaml:"driver"` // "pgdriver" (default) or "postgres" (lib/pq)
	Debug    bool   `yaml:"debug"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // "ollama" or "openai"
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
}

type RAGConfig struct {
	ChunkSize           int     `yaml:"chunk_size"`
	ChunkOverlap        int     `yaml:"chunk_overlap"`
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	VectorDBPath        string  `yaml:"vector_db_path"`
	Collection          string  `yaml:"collection"`
	EncryptionKey       string  `yaml:"encryption_key"`
}

type UploadsConfig struct {
	SlidesPath    string `yaml:"slides_path"`
	ResourcesPath string `yaml:"resources_path"`
}

const (
	DefaultChunkSize           = 1000
	DefaultChunkOverlap        = 200
	DefaultTopK                = 5
	DefaultSimilarityThreshold = 0.1
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in zero-valued knobs.
func (c *Config) ApplyDefaults() {
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = DefaultChunkSize
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = DefaultChunkOverlap
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = DefaultTopK
	}
	if c.RAG.SimilarityThreshold == 0 {
		c.RAG.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "pgdriver"
	}
	if c.Uploads.SlidesPath == "" {
		c.Uploads.SlidesPath = "./uploads/slides"
	}
	if c.Uploads.ResourcesPath == "" {
		c.Uploads.ResourcesPath = "./uploads/resources"
	}
}
