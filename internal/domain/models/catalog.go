// Package models manages the speech and dictation model catalog: what can
// be downloaded, what is installed, and where on disk models live.
package models

// Engines that consume downloadable models.
const (
	EngineVosk    = "vosk"
	EngineWhisper = "whisper"
	EnginePiper   = "piper"
)

// Archive kinds a catalog entry may use.
const (
	ArchiveZip   = "zip"
	ArchiveTarGz = "tar.gz"
	// ArchiveRaw downloads are stored as-is, one file per URL.
	ArchiveRaw = "raw"
)

// CatalogEntry describes one downloadable model.
type CatalogEntry struct {
	Engine string
	// Name is the human-facing selector, e.g. "small-en".
	Name string
	// ID is the directory name the model installs under.
	ID          string
	Description string
	// URLs are fetched in order; raw archives keep each URL's base name.
	URLs    []string
	Archive string
	SizeMB  int
}

// InstalledModel is a model found on disk.
type InstalledModel struct {
	Engine string `json:"engine"`
	ID     string `json:"id"`
	Path   string `json:"path"`
}

// ProgressFunc reports download progress. total is -1 when unknown.
type ProgressFunc func(received, total int64)

// Catalog returns the built-in model catalog.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{
			Engine:      EngineVosk,
			Name:        "small-en",
			ID:          "vosk-model-small-en-us-0.15",
			Description: "Lightweight English model for streaming dictation",
			URLs:        []string{"https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip"},
			Archive:     ArchiveZip,
			SizeMB:      40,
		},
		{
			Engine:      EngineWhisper,
			Name:        "base-en",
			ID:          "faster-whisper-base.en",
			Description: "English base model for utterance dictation",
			URLs: []string{
				"https://huggingface.co/Systran/faster-whisper-base.en/resolve/main/config.json",
				"https://huggingface.co/Systran/faster-whisper-base.en/resolve/main/model.bin",
				"https://huggingface.co/Systran/faster-whisper-base.en/resolve/main/tokenizer.json",
				"https://huggingface.co/Systran/faster-whisper-base.en/resolve/main/vocabulary.txt",
			},
			Archive: ArchiveRaw,
			SizeMB:  145,
		},
		{
			Engine:      EnginePiper,
			Name:        "amy-medium",
			ID:          "en_US-amy-medium",
			Description: "US English voice for the piper engine",
			URLs: []string{
				"https://huggingface.co/rhasspy/piper-voices/resolve/main/en/en_US/amy/medium/en_US-amy-medium.onnx",
				"https://huggingface.co/rhasspy/piper-voices/resolve/main/en/en_US/amy/medium/en_US-amy-medium.onnx.json",
			},
			Archive: ArchiveRaw,
			SizeMB:  63,
		},
		{
			Engine:      EnginePiper,
			Name:        "runtime",
			ID:          "piper",
			Description: "Piper synthesis binary and espeak-ng data",
			URLs:        []string{"https://github.com/rhasspy/piper/releases/download/2023.11.14-2/piper_linux_x86_64.tar.gz"},
			Archive:     ArchiveTarGz,
			SizeMB:      25,
		},
	}
}

// FindCatalogEntry looks up a catalog entry by engine and name.
func FindCatalogEntry(engine, name string) (CatalogEntry, bool) {
	for _, entry := range Catalog() {
		if entry.Engine == engine && entry.Name == name {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}
