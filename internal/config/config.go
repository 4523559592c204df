package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sheet   SheetConfig   `yaml:"sheet" mapstructure:"sheet"`
	Ads     AdsConfig     `yaml:"ads" mapstructure:"ads"`
	Columns ColumnsConfig `yaml:"columns" mapstructure:"columns"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SheetConfig identifies the Google Sheet holding the sales ledger.
type SheetConfig struct {
	ID         string `yaml:"id" mapstructure:"id"`
	Name       string `yaml:"name" mapstructure:"name"`
	TimeoutSec int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AdsConfig holds the advertising-metrics API settings.
type AdsConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`
	TimeoutSec int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ColumnsConfig maps the deployment's ledger column labels to engine fields.
// Deployments vary the exact labels, so nothing downstream hardcodes them;
// the defaults match the original branch sheet.
type ColumnsConfig struct {
	Customer   string `yaml:"customer" mapstructure:"customer"`
	Date       string `yaml:"date" mapstructure:"date"`
	Phone      string `yaml:"phone" mapstructure:"phone"`
	Categories string `yaml:"categories" mapstructure:"categories"`
	Channel    string `yaml:"channel" mapstructure:"channel"`
	Interest   string `yaml:"interest" mapstructure:"interest"`
	IsNew      string `yaml:"is_new" mapstructure:"is_new"`
	P1         string `yaml:"p1" mapstructure:"p1"`
	P2         string `yaml:"p2" mapstructure:"p2"`
	UpP1       string `yaml:"up_p1" mapstructure:"up_p1"`
	UpP2       string `yaml:"up_p2" mapstructure:"up_p2"`
}

// ReportConfig holds presentation settings.
type ReportConfig struct {
	BranchName         string `yaml:"branch_name" mapstructure:"branch_name"`
	CurrencySymbol     string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
	UnspecifiedChannel string `yaml:"unspecified_channel" mapstructure:"unspecified_channel"`
	TopCategories      int    `yaml:"top_categories" mapstructure:"top_categories"`
}

// StoreConfig configures the ledger snapshot database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the report HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file (./bornsong.yaml or
// ~/.config/bornsong/config.yaml), environment (BORNSONG_ prefix), and
// defaults, in that order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("bornsong")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/bornsong")

	// Environment
	v.SetEnvPrefix("BORNSONG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sheet.name", "SUM")
	v.SetDefault("sheet.timeout_secs", 30)
	v.SetDefault("ads.base_url", "https://backend-api-ram.vercel.app/api")
	v.SetDefault("ads.endpoint", "databillRam")
	v.SetDefault("ads.timeout_secs", 30)
	v.SetDefault("columns.customer", "ชื่อลูกค้า")
	v.SetDefault("columns.date", "วันที่")
	v.SetDefault("columns.phone", "เบอร์ติดต่อ")
	v.SetDefault("columns.categories", "หมวดหมู่")
	v.SetDefault("columns.channel", "ช่องทาง")
	v.SetDefault("columns.interest", "รายการที่สนใจ")
	v.SetDefault("columns.is_new", "ลูกค้าใหม่")
	v.SetDefault("columns.p1", "P1")
	v.SetDefault("columns.p2", "P2")
	v.SetDefault("columns.up_p1", "ยอดอัพ P1")
	v.SetDefault("columns.up_p2", "ยอดอัพ P2")
	v.SetDefault("report.branch_name", "RAM")
	v.SetDefault("report.currency_symbol", "฿")
	v.SetDefault("report.unspecified_channel", "ไม่ระบุ")
	v.SetDefault("report.top_categories", 15)
	v.SetDefault("store.path", "bornsong.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
