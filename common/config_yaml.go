package common

import (
	"errors"
	"fmt"
	"path"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v3"
)

// LoadYAML 将data中的YAML配置加载到到结构体target中
func LoadYAML(data []byte, target interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("Can't load yaml config from empty data")
	}
	return yaml.Unmarshal(data, target)
}

// LoadConfig 从configDir目录下的多个path指定的YAML配置文件中加载配置
func LoadConfig(config Configurer, addonConfig string, configDir string, pathes ...string) (err error) {
	return LoadConfigWithLoader(FileLoader, config, addonConfig, configDir, pathes...)
}

// LoadConfigWithLoader 使用指定的加载器加载配置,多个文件的内容按顺序拼接后再解析
func LoadConfigWithLoader(loader ConfigLoader, config Configurer, addonConfig string, configDir string, pathes ...string) (err error) {
	if loader == nil {
		err = errors.New("no loader")
		return
	}
	if len(pathes) == 0 && addonConfig == "" {
		return errInvalidConf
	}

	var content []byte
	if addonConfig != "" {
		content = append(content, addonConfig...)
		content = append(content, []byte("\n")...)
	}
	for _, p := range pathes {
		p = path.Join(configDir, p)
		Infof("load conf from:%s", p)
		cnt, err := loader.Load(p)
		if err != nil {
			return err
		}
		if len(cnt) == 0 {
			Warnf("empty content in %s", p)
			continue
		}
		content = append(content, cnt...)
		content = append(content, []byte("\n")...)
	}
	if len(content) == 0 {
		return errInvalidConf
	}
	return LoadYAML(content, config)
}

// LoadEnv 使用prefix开头的环境变量覆盖config中的配置
func LoadEnv(prefix string, config interface{}) error {
	if err := envconfig.Process(prefix, config); err != nil {
		return fmt.Errorf("process env with prefix %s fail,err:%w", prefix, err)
	}
	return nil
}
