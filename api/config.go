package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	c "github.com/d0ngw/namedcounter/common"
	"go.uber.org/multierr"
)

// EnvPrefix 环境变量的前缀,例如COUNTERD_HTTP_ADDR
const EnvPrefix = "COUNTERD"

// 默认配置
const (
	DefaultAddr   = ":8080"
	DefaultShards = 32
)

// HTTPConfig http服务配置
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`
	MaxConns     int           `yaml:"max_conns" split_words:"true"`  //最大并发连接数,<=0不限制
	RateLimit    float64       `yaml:"rate_limit" split_words:"true"` //每秒允许的请求数,<=0不限制
	RateBurst    int           `yaml:"rate_burst" split_words:"true"`
	Gzip         *bool         `yaml:"gzip"`
}

// GzipEnabled 是否启用gzip压缩,默认启用
func (p *HTTPConfig) GzipEnabled() bool {
	return p.Gzip == nil || *p.Gzip
}

// StoreConfig 计数器存储配置
type StoreConfig struct {
	Shards uint `yaml:"shards"`
}

// Config counterd的配置
type Config struct {
	c.AppConfig `yaml:",inline"`
	HTTP        *HTTPConfig  `yaml:"http"`
	Store       *StoreConfig `yaml:"store"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	conf := &Config{}
	conf.setDefaults()
	return conf
}

func (p *Config) setDefaults() {
	if p.HTTP == nil {
		p.HTTP = &HTTPConfig{}
	}
	if p.HTTP.Addr == "" {
		p.HTTP.Addr = DefaultAddr
	}
	if p.Store == nil {
		p.Store = &StoreConfig{}
	}
	if p.Store.Shards == 0 {
		p.Store.Shards = DefaultShards
	}
}

// Validate 检查配置,返回所有不合法的项
func (p *Config) Validate() error {
	var err error
	if p.HTTP == nil {
		err = multierr.Append(err, errors.New("http config is required"))
	} else {
		if strings.TrimSpace(p.HTTP.Addr) == "" {
			err = multierr.Append(err, errors.New("http.addr is required"))
		}
		if p.HTTP.ReadTimeout < 0 {
			err = multierr.Append(err, fmt.Errorf("invalid http.read_timeout %v", p.HTTP.ReadTimeout))
		}
		if p.HTTP.WriteTimeout < 0 {
			err = multierr.Append(err, fmt.Errorf("invalid http.write_timeout %v", p.HTTP.WriteTimeout))
		}
		if p.HTTP.RateLimit < 0 {
			err = multierr.Append(err, fmt.Errorf("invalid http.rate_limit %v", p.HTTP.RateLimit))
		}
		if p.HTTP.RateBurst < 0 {
			err = multierr.Append(err, fmt.Errorf("invalid http.rate_burst %d", p.HTTP.RateBurst))
		}
	}
	if p.Store == nil {
		err = multierr.Append(err, errors.New("store config is required"))
	} else if p.Store.Shards == 0 || p.Store.Shards&(p.Store.Shards-1) != 0 {
		err = multierr.Append(err, fmt.Errorf("store.shards must be a power of two, got %d", p.Store.Shards))
	}
	return err
}

// Parse 补全默认值,校验配置,然后初始化日志和运行期配置
func (p *Config) Parse() error {
	p.setDefaults()
	if err := p.Validate(); err != nil {
		return err
	}
	return c.Parse(p)
}

// LoadConfig 加载配置,依次使用配置文件(可以为空),COUNTERD_前缀的环境变量和PORT环境变量,最后解析配置
func LoadConfig(configPath string) (*Config, error) {
	conf := &Config{}
	if configPath != "" {
		if err := c.LoadConfig(conf, "", filepath.Dir(configPath), filepath.Base(configPath)); err != nil {
			return nil, fmt.Errorf("load config %s fail,err:%w", configPath, err)
		}
	}
	conf.setDefaults()
	if err := c.LoadEnv(EnvPrefix, conf); err != nil {
		return nil, err
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		conf.HTTP.Addr = ":" + port
	}
	if err := conf.Parse(); err != nil {
		return nil, err
	}
	return conf, nil
}
