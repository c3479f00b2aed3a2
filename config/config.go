package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		PublicUrl  string `default:"http://localhost:3000" env:"APP_PUBLIC_URL"` // адрес фронта, для ссылок в письмах
		FontDir    string `default:"static/font" env:"APP_FONT_DIR"`             // шрифты для PDF
	}
	Auth struct {
		JWTSecret      string `default:"secret" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"flyers" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		MaxOpenConns   int    `default:"20" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns   int    `default:"5" env:"DB_MAX_IDLE_CONNS"`
		ConnMaxLifeMin int    `default:"30" env:"DB_CONN_MAX_LIFETIME_MIN"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		From       string `default:"letaky@localhost" env:"SMTP_FROM"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"minioadmin" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"minioadmin" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"flyers" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Erp struct {
		Host              string `default:"127.0.0.1" env:"ERP_HOST"`
		Port              int    `default:"1433" env:"ERP_PORT"`
		Name              string `default:"ERP" env:"ERP_NAME"`
		User              string `default:"sa" env:"ERP_USER"`
		Password          string `default:"" env:"ERP_PASSWORD"`
		MaxOpenConns      int    `default:"10" env:"ERP_MAX_OPEN_CONNS"`
		QueryTimeoutSec   int    `default:"10" env:"ERP_QUERY_TIMEOUT_SEC"`
		ConnectAttempts   int    `default:"3" env:"ERP_CONNECT_ATTEMPTS"`
		ConnectBackoffMs  int    `default:"500" env:"ERP_CONNECT_BACKOFF_MS"`
		BreakerFailures   int    `default:"5" env:"ERP_BREAKER_FAILURES"`
		BreakerOpenSec    int    `default:"30" env:"ERP_BREAKER_OPEN_SEC"`
		ActionPricesTable string `default:"dbo.AkcniCeny" env:"ERP_ACTION_PRICES_TABLE"`
		ProductsTable     string `default:"dbo.Zbozi" env:"ERP_PRODUCTS_TABLE"`
	}
	Redis struct {
		Addr        string `default:"" env:"REDIS_ADDR"` // пусто - кэш ERP отключен
		Password    string `default:"" env:"REDIS_PASSWORD"`
		DB          int    `default:"0" env:"REDIS_DB"`
		ErpCacheTTL int    `default:"300" env:"REDIS_ERP_CACHE_TTL_SEC"`
	}
	Workflow struct {
		RequiredPreApprovers int `default:"1" env:"WORKFLOW_REQUIRED_PRE_APPROVERS"`
		RequiredApprovers    int `default:"2" env:"WORKFLOW_REQUIRED_APPROVERS"`
	}
	Upload struct {
		MaxImageSize int64 `default:"5242880" env:"UPLOAD_MAX_IMAGE_SIZE"` // 5MB
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
