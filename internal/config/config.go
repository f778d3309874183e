package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	WeChat struct {
		AppID     string `yaml:"app_id"`
		AppSecret string `yaml:"app_secret"`
		MchID     string `yaml:"mch_id"`
		MchSecret string `yaml:"mch_secret"`
		NotifyURL string `yaml:"pay_notify_url"`

		// ForceMinimalFee fuerza total_fee=1 en orden/devolución.
		// Flag explícito para entornos que no son producción.
		ForceMinimalFee bool `yaml:"force_minimal_fee"`
	} `yaml:"wechat"`

	Session struct {
		CookieName string `yaml:"cookie_name"`
		TTL        string `yaml:"ttl"`
		// ProfileTTL es la vida del cache de perfil. "0" lo deshabilita.
		ProfileTTL string `yaml:"profile_ttl"`
	} `yaml:"session"`

	Cache struct {
		Driver string `yaml:"driver"` // memory | redis
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "wego_sid"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "720h" // 30d, vida del refresh token
	}
	if c.Session.ProfileTTL == "" {
		c.Session.ProfileTTL = "2m"
	}

	// app_id obligatorio; los secretos pueden venir por entorno
	if c.WeChat.AppID == "" {
		return nil, fmt.Errorf("config: wechat.app_id is required")
	}

	// validar duraciones
	for _, d := range []string{c.Session.TTL, c.Session.ProfileTTL} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// SessionTTL devuelve la vida de la sesión ya parseada.
func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.TTL)
	return d
}

// ProfileTTL devuelve la vida del cache de perfil ya parseada.
func (c *Config) ProfileTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.ProfileTTL)
	return d
}
