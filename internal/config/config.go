package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Presets nomeados para o limiar de inatividade da classificação de risco.
// A regra de negócio é "marcar clientes inativos há mais de N dias com >= 2
// compras"; o valor de N difere entre o fluxo interativo e o batch histórico.
const (
	RiskPresetInteractive = "interactive" // 90 dias
	RiskPresetBatch       = "batch"       // 180 dias
)

var riskPresetDays = map[string]int{
	RiskPresetInteractive: 90,
	RiskPresetBatch:       180,
}

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Auth     Auth     `mapstructure:",squash"`
	Pipeline Pipeline `mapstructure:",squash"`
	Models   Models   `mapstructure:",squash"`
	Refresh  Refresh  `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Enabled  bool   `mapstructure:"database_enabled"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	Secret        string `mapstructure:"auth_secret"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

type Pipeline struct {
	// DataDir é a raiz dos artefatos (raw/, processed/, outputs/).
	DataDir string `mapstructure:"data_dir"`
	// Seed alimenta toda amostragem e inicialização aleatória dos estágios.
	Seed int64 `mapstructure:"random_seed"`
	// ReferenceDate fixa o "agora" usado em dias_desde_ultima ("" = relógio).
	ReferenceDate string `mapstructure:"reference_date"`
}

type Models struct {
	// RiskPreset escolhe o limiar de inatividade ("interactive"=90, "batch"=180).
	RiskPreset string `mapstructure:"risk_preset"`
	// RiskInactivityDays sobrepõe o preset quando > 0.
	RiskInactivityDays int     `mapstructure:"risk_inactivity_days"`
	TestFraction       float64 `mapstructure:"model_test_fraction"`
	ClassifierEpochs   int     `mapstructure:"classifier_epochs"`
	ClassifierLR       float64 `mapstructure:"classifier_learning_rate"`
	ForecastWindow     int     `mapstructure:"forecast_window"`
	ForecastEpochs     int     `mapstructure:"forecast_epochs"`
	ForecastHidden     int     `mapstructure:"forecast_hidden_size"`
	ForecastLR         float64 `mapstructure:"forecast_learning_rate"`
}

type Refresh struct {
	CronSchedule string `mapstructure:"pipeline_refresh_cron"`
	Enabled      bool   `mapstructure:"pipeline_refresh_enabled"`
}

// RiskThresholdDays resolve o limiar efetivo de inatividade em dias.
func (m Models) RiskThresholdDays() int {
	if m.RiskInactivityDays > 0 {
		return m.RiskInactivityDays
	}
	if days, ok := riskPresetDays[strings.ToLower(m.RiskPreset)]; ok {
		return days
	}
	return riskPresetDays[RiskPresetInteractive]
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_ENABLED", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/insights")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("ADMIN_EMAIL", "admin@local")
	// Hash bcrypt de "admin" ONLY LOCAL
	viper.SetDefault("ADMIN_PASSWORD", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("RANDOM_SEED", 42)
	viper.SetDefault("REFERENCE_DATE", "")

	viper.SetDefault("RISK_PRESET", RiskPresetInteractive)
	viper.SetDefault("RISK_INACTIVITY_DAYS", 0)
	viper.SetDefault("MODEL_TEST_FRACTION", 0.2)
	viper.SetDefault("CLASSIFIER_EPOCHS", 300)
	viper.SetDefault("CLASSIFIER_LEARNING_RATE", 0.1)
	viper.SetDefault("FORECAST_WINDOW", 7)
	viper.SetDefault("FORECAST_EPOCHS", 50)
	viper.SetDefault("FORECAST_HIDDEN_SIZE", 32)
	viper.SetDefault("FORECAST_LEARNING_RATE", 0.01)

	viper.SetDefault("PIPELINE_REFRESH_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("PIPELINE_REFRESH_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
