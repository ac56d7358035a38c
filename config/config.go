package config

import (
	"fmt"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

const Prefix = "SHOP"

type Config struct {
	conf.Version
	Web     Web
	DB      DB
	Session Session
	Upload  Upload
	Login   Login
	Locale  string `conf:"default:en"`
}

type Web struct {
	Host            string        `conf:"default:0.0.0.0"`
	Port            int           `conf:"default:3000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

func (w Web) Address() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

type DB struct {
	Driver         string        `conf:"default:mongo,help:mongo or memory"`
	URI            string        `conf:"default:mongodb://localhost:27017,mask"`
	Name           string        `conf:"default:shop"`
	ConnectTimeout time.Duration `conf:"default:10s"`
}

type Session struct {
	Secret   string        `conf:"required,mask"`
	Lifetime time.Duration `conf:"default:24h"`
	Secure   bool          `conf:"default:false"`
}

type Upload struct {
	Dir      string `conf:"default:images"`
	MaxBytes int64  `conf:"default:5242880"`
	Minio    Minio
}

type Minio struct {
	Endpoint  string
	AccessKey string `conf:"mask"`
	SecretKey string `conf:"mask"`
	Bucket    string `conf:"default:avatars"`
	UseSSL    bool   `conf:"default:false"`
	PublicURL string
}

type Login struct {
	Burst    int           `conf:"default:5"`
	Interval time.Duration `conf:"default:12s"`
	Expiry   time.Duration `conf:"default:10m"`
}

// Load reads an optional .env file and then parses the environment.
// The help text is returned together with conf.ErrHelpWanted.
func Load(build string) (Config, string, error) {
	_ = godotenv.Load()

	cfg := Config{
		Version: conf.Version{
			Build: build,
			Desc:  "course shop storefront",
		},
	}

	help, err := conf.Parse(Prefix, &cfg)
	if err != nil {
		return Config{}, help, err
	}

	return cfg, "", nil
}
