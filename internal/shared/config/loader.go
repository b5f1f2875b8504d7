package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// envPrefix 环境变量前缀：WARSIM_STORAGE_DRIVER=sqlite 覆盖 storage.driver。
const envPrefix = "WARSIM"

func load[T any](configPath string, out *T, onChange func(T)) {
	if !fileExist(configPath) {
		panic(fmt.Sprintf("config file not exist, configPath=%v", configPath))
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 加载配置
	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}
	if err := v.Unmarshal(out, decodeHook()); err != nil {
		panic(err)
	}

	if onChange == nil {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("配置文件变更", e.Name)
		var next T
		if err := v.Unmarshal(&next, decodeHook()); err != nil {
			// 热更新失败保留旧配置，不影响运行中的服务
			log.Printf("viper unmarshal change config data failed, err=%v\n", err)
			return
		}
		onChange(next)
	})
	v.WatchConfig()
}

// decodeHook 支持 "3s"/"5m" 写法的 time.Duration 和逗号分隔的切片。
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
