package cfgm

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/urfave/cli/v3"
)

// DefaultPaths 返回默认配置文件的搜索顺序。
//
// 优先级 (从高到低)：
//  1. ./.appname.yaml - 当前目录应用配置
//  2. ~/.appname.yaml - 用户主目录配置
//  3. /etc/appname/config.yaml - 系统级配置
//  4. config.yaml - 当前目录通用配置
//  5. config/config.yaml - 子目录通用配置
func DefaultPaths(appName ...string) []string {
	var paths []string

	if len(appName) > 0 && appName[0] != "" {
		name := appName[0]
		paths = append(paths, "."+name+".yaml")
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, "."+name+".yaml"))
		}
		paths = append(paths, "/etc/"+name+"/config.yaml")
	}

	return append(paths, "config.yaml", "config/config.yaml")
}

// Load 读取配置并按优先级逐层覆盖。
//
// 优先级 (从低到高)：
//  1. 默认值 - defaultConfig
//  2. 配置文件 - [WithConfigPaths] / [WithAppName]
//  3. 环境变量 - [WithEnvPrefix] / [WithEnvBindings]
//  4. CLI flags - [WithCommand]
//
// 每一层只覆盖它实际提供的 key。defaultConfig 中的 map 会被原地合并，
// 调用方应传入新构造的值。
func Load[T any](defaultConfig T, opts ...Option) (*T, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if len(o.configPaths) == 0 {
		o.configPaths = DefaultPaths(o.appName)
	}

	cfg := defaultConfig
	keys := collectConfigKeys(defaultConfig)

	// 2️⃣ 配置文件 (按顺序搜索，找到第一个即停止)
	configLoaded := false
	for _, path := range o.configPaths {
		content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if err != nil {
			continue
		}

		fileMap, err := parseConfigBytes(path, content)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if err := decodeConfigMap(fileMap, &cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}

		slog.Debug("Loaded config from file", "path", path)
		configLoaded = true

		break
	}
	if !configLoaded {
		slog.Debug("No config file found, using defaults")
	}

	// 3️⃣ 环境变量
	envMap := make(map[string]any)
	if o.envPrefix != "" {
		for envKey, key := range generateEnvBindings(o.envPrefix, keys) {
			if val, ok := o.lookupEnv(envKey); ok && val != "" {
				setByPath(envMap, key, val)
				slog.Debug("Loaded env binding", "env", envKey, "path", key)
			}
		}
	}
	for envKey, key := range o.envBindings {
		if val, ok := o.lookupEnv(envKey); ok && val != "" {
			setByPath(envMap, key, val)
			slog.Debug("Loaded env binding", "env", envKey, "path", key)
		}
	}
	if err := decodeConfigMap(envMap, &cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	// 4️⃣ CLI flags (仅当用户明确指定时)
	if o.cmd != nil {
		if err := decodeConfigMap(cliFlagMap(o.cmd, keys), &cfg); err != nil {
			return nil, fmt.Errorf("decode flags: %w", err)
		}
	}

	return &cfg, nil
}

// LoadCmd 是 [Load] 的便捷版本，适用于 CLI 场景。
//
// 它会注入 [WithCommand]，appName 非空时额外注入 [WithAppName]。
func LoadCmd[T any](cmd *cli.Command, defaultConfig T, appName string, opts ...Option) (*T, error) {
	baseOpts := []Option{WithCommand(cmd)}
	if appName != "" {
		baseOpts = append(baseOpts, WithAppName(appName))
	}

	return Load(defaultConfig, append(baseOpts, opts...)...)
}

// MustLoad 调用 [Load] 并在失败时 panic，适合启动阶段。
func MustLoad[T any](defaultConfig T, opts ...Option) *T {
	cfg, err := Load(defaultConfig, opts...)
	if err != nil {
		panic(fmt.Sprintf("cfgm: failed to load config: %v", err))
	}

	return cfg
}

// collectConfigKeys 递归收集配置结构体的叶子 key（如 template.url）。
func collectConfigKeys[T any](defaultConfig T) []string {
	var keys []string
	collectConfigKeysRecursive(reflect.TypeOf(defaultConfig), "", &keys)

	return keys
}

func collectConfigKeysRecursive(typ reflect.Type, prefix string, keys *[]string) {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return
	}

	for i := range typ.NumField() {
		field := typ.Field(i)
		key := configTagName(field)
		if key == "" {
			continue
		}

		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if isStructType(field.Type) {
			collectConfigKeysRecursive(field.Type, fullKey, keys)

			continue
		}

		*keys = append(*keys, fullKey)
	}
}

// generateEnvBindings 根据配置 key 生成 "环境变量 → key" 映射。
//
// 示例 (前缀 "CIVARS_")：expand.max-passes → CIVARS_EXPAND_MAX_PASSES
func generateEnvBindings(prefix string, keys []string) map[string]string {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	bindings := make(map[string]string, len(keys))
	for _, key := range keys {
		bindings[prefix+strings.ToUpper(replacer.Replace(key))] = key
	}

	return bindings
}

// FlagName 返回配置 key 对应的 CLI flag 名称，仅替换 "." 为 "-"。
//
//   - template.url → --template-url
//   - expand.max-passes → --expand-max-passes
func FlagName(key string) string {
	return strings.ReplaceAll(key, ".", "-")
}

// cliFlagMap 收集用户显式设置的 flags。
func cliFlagMap(cmd *cli.Command, keys []string) map[string]any {
	out := make(map[string]any)
	for _, key := range keys {
		flag := FlagName(key)
		if !cmd.IsSet(flag) {
			continue
		}
		setByPath(out, key, cmd.Value(flag))
	}

	return out
}
