package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr      string `yaml:"http_addr"`
	DataDir       string `yaml:"data_dir"`
	DBPath        string `yaml:"db_path"`
	DocsDir       string `yaml:"docs_dir"`
	WorkspaceRoot string `yaml:"workspace_root"`
	DashboardDir  string `yaml:"dashboard_dir"`
	WebDir        string `yaml:"web_dir"`
	AgentsConfig  string `yaml:"agents_config"`
	DefaultAgent  string `yaml:"default_agent"`
}

// Load resolves configuration with env taking precedence over the YAML
// config file, which takes precedence over defaults. A .env file in the
// working directory is read first so it can supply env values.
func Load() Config {
	loadDotEnv(".env")
	fileCfg := loadYAML(getEnv("DASHD_CONFIG", "dashd.yaml"))

	dataDir := resolve("DASHD_DATA_DIR", fileCfg.DataDir, "data")
	return Config{
		HTTPAddr:      resolve("DASHD_HTTP_ADDR", fileCfg.HTTPAddr, ":3001"),
		DataDir:       dataDir,
		DBPath:        resolve("DASHD_DB_PATH", fileCfg.DBPath, filepath.Join(dataDir, "dashboard.db")),
		DocsDir:       resolve("DASHD_DOCS_DIR", fileCfg.DocsDir, filepath.Join(dataDir, "docs")),
		WorkspaceRoot: resolve("DASHD_WORKSPACE_ROOT", fileCfg.WorkspaceRoot, "workspace"),
		DashboardDir:  resolve("DASHD_DASHBOARD_DIR", fileCfg.DashboardDir, "ClawDashboard"),
		WebDir:        resolve("DASHD_WEB_DIR", fileCfg.WebDir, "web"),
		AgentsConfig:  resolve("DASHD_AGENTS_CONFIG", fileCfg.AgentsConfig, "openclaw.json"),
		DefaultAgent:  resolve("DASHD_DEFAULT_AGENT", fileCfg.DefaultAgent, "Claw"),
	}
}

func resolve(envKey, fileValue, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadYAML(path string) Config {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, value)
	}
}
