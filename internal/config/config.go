package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"
)

const defaultFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	DataDir     string `yaml:"data_dir"`
	ProjectsDir string `yaml:"projects_dir"`

	Download struct {
		Engine    string `yaml:"engine"` // "ytdlp" or "http"
		Format    string `yaml:"format"`
		YtDlpPath string `yaml:"ytdlp_path"`
	} `yaml:"download"`
}

// LoadConfig reads the YAML config at path, fills in defaults, and
// applies COURSE_GRABBER_* environment overrides. A missing config file
// is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err == nil {
		dec := yaml.NewDecoder(f)
		err = dec.Decode(&cfg)
		f.Close()
		if err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if v := os.Getenv("COURSE_GRABBER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("COURSE_GRABBER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = filepath.Join(home, ".course-grabber")
	}
	if cfg.ProjectsDir == "" {
		cfg.ProjectsDir = filepath.Join(cfg.DataDir, "projects")
	}
	if cfg.Download.Engine == "" {
		cfg.Download.Engine = "ytdlp"
	}
	if cfg.Download.Format == "" {
		cfg.Download.Format = defaultFormat
	}
	if cfg.Download.YtDlpPath == "" {
		cfg.Download.YtDlpPath = "yt-dlp"
	}

	return &cfg, nil
}
