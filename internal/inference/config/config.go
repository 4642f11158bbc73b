package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes"`
}

type EngineConfig struct {
	// Type selects the scoring engine. Only "pixelhash" ships today.
	Type string `json:"type"`

	// InputSize is the square edge images are resized to before scoring.
	InputSize int `json:"input_size,omitempty"`
}

type Config struct {
	Env    string       `json:"env"`
	HTTP   HTTPConfig   `json:"http"`
	Engine EngineConfig `json:"engine"`

	// ClassIndicesPath points at a JSON object of index -> "Plant___Disease".
	// Empty selects the built-in PlantVillage index.
	ClassIndicesPath string `json:"class_indices_path,omitempty"`
}
