package serverconfig

import (
	"WarSim/internal/shared/config"
)

var Conf Config

// Load 加载 configs/conf.yml（或 cfgName 指定的文件），并注册热更新回调。
// 目前只有日志级别支持热更新，其余配置变更需要重启进程。
func Load(cfgName string, onChange func(Config)) {
	config.Load(cfgName, &Conf, onChange)
	Conf.ApplyDefaults()
}
