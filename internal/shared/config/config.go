package config

import (
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// Resolve 解析配置文件路径。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Resolve(cfgName string) string {
	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName
		}
		return filepath.Join(curDir, cfgName)
	}
	return findConfigUpward(curDir)
}

// Load 读取配置到 out，并在文件变更时把新配置交给 onChange（可为 nil）。
// 注意 out 只在首次加载时写入，热更新不会并发改写调用方持有的结构体。
func Load[T any](cfgName string, out *T, onChange func(T)) {
	load(Resolve(cfgName), out, onChange)
}

func findConfigUpward(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched configs/conf.yml from: " + startDir)
		}
		dir = parent
	}
}
