// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocumentBackend selects how PDF and DOCX files are turned into text.
type DocumentBackend string

const (
	// BackendNative parses the file in-process.
	BackendNative DocumentBackend = "native"
	// BackendMarkitdown pipes the file through the markitdown container image.
	BackendMarkitdown DocumentBackend = "markitdown"
)

// OCRBackend selects the optical character recognizer used for images.
type OCRBackend string

const (
	OCRNone      OCRBackend = "none"
	OCRTesseract OCRBackend = "tesseract"
	OCRVision    OCRBackend = "vision"
)

// OCRConfig holds settings for image text recognition.
type OCRConfig struct {
	// Backend is none, tesseract (container), or vision (Google Cloud Vision).
	Backend OCRBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// TesseractImage is the container image whose entrypoint runs tesseract.
	TesseractImage string `json:"tesseract_image" yaml:"tesseract_image" mapstructure:"tesseract_image"`

	// Credentials is a service account JSON document or a path to one, used
	// by the vision backend. Empty means application default credentials.
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty" mapstructure:"credentials"`
}

// ExtractionConfig holds settings for the extraction collaborator.
type ExtractionConfig struct {
	// PDFBackend selects native or markitdown conversion for .pdf inputs.
	PDFBackend DocumentBackend `json:"pdf_backend" yaml:"pdf_backend" mapstructure:"pdf_backend"`

	// DOCXBackend selects native or markitdown conversion for .docx inputs.
	DOCXBackend DocumentBackend `json:"docx_backend" yaml:"docx_backend" mapstructure:"docx_backend"`

	// MarkitdownImage is the container image used by the markitdown backend.
	MarkitdownImage string `json:"markitdown_image" yaml:"markitdown_image" mapstructure:"markitdown_image"`

	// CacheSize bounds the number of extraction results memoized per run (default 128).
	CacheSize int `json:"cache_size" yaml:"cache_size" mapstructure:"cache_size"`

	OCR OCRConfig `json:"ocr" yaml:"ocr" mapstructure:"ocr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Mode is "dev" (console encoder) or "prod" (JSON encoder).
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// RefineConfig groups all settings read from refine-engine.yaml and the
// REFINE_ENGINE_* environment.
type RefineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`

	// SecretsDir is the directory of key files loaded at startup (default ".secrets/").
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// DefaultRefineConfig returns the settings used when no config file is present.
func DefaultRefineConfig() RefineConfig {
	return RefineConfig{
		Extraction: ExtractionConfig{
			PDFBackend:      BackendNative,
			DOCXBackend:     BackendNative,
			MarkitdownImage: "markitdown:latest",
			CacheSize:       128,
			OCR: OCRConfig{
				Backend:        OCRNone,
				TesseractImage: "tesseract:latest",
			},
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "warn",
		},
		SecretsDir: ".secrets/",
	}
}
