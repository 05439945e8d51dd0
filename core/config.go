package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	Config struct {
		Env              string // DEV (local; default), TEST, QA, PROD
		Debug            bool
		TestMode         bool
		AppName          string
		SchoolName       string
		IDPrefix         string
		Currency         string
		DefaultFromEmail string
		SendgridAPIKey   string
		RollbarToken     string
		Build            string
		LogLevel         string
		AcademicYear     string
		CurrentTerm      string
		FeeSchedulePath  string // overrides the embedded fee schedule
		CurriculumPath   string // overrides the embedded curriculum
		SeedPath         string // overrides the embedded seed data
		Server           ServerConfig
	}
)

// NewConfig reads the configuration from the environment, and from `config/.env.<env>` when it exists.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "School Admin")
	v.SetDefault("schoolName", "Christ Community School")
	v.SetDefault("idPrefix", "CCS")
	v.SetDefault("currency", "GHS")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("build", "develop")
	v.SetDefault("logLevel", "debug")
	v.SetDefault("academicYear", "2024/2025")
	v.SetDefault("currentTerm", "First Term")
	v.SetDefault("feeSchedulePath", "")
	v.SetDefault("curriculumPath", "")
	v.SetDefault("seedPath", "")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		SchoolName:       v.GetString("schoolName"),
		IDPrefix:         v.GetString("idPrefix"),
		Currency:         v.GetString("currency"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Build:            v.GetString("build"),
		LogLevel:         v.GetString("logLevel"),
		AcademicYear:     v.GetString("academicYear"),
		CurrentTerm:      v.GetString("currentTerm"),
		FeeSchedulePath:  v.GetString("feeSchedulePath"),
		CurriculumPath:   v.GetString("curriculumPath"),
		SeedPath:         v.GetString("seedPath"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
	}
}

// NewTestConfig returns the configuration used by tests: TEST mode with request logs off.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Server.DisableReqLogs = true
	return conf
}
