// Package pipeline 串联模板获取、继承解析、运行时覆盖与引用展开。
//
// 流程：模板作业的默认值 → 运行时已有变量覆盖同名默认值 → 多轮引用展开。
// 进程环境只在边界读取一次（[Runner.Environ]），核心步骤只处理 map。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lwmacct/251207-go-pkg-civars/internal/config"
	"github.com/lwmacct/251207-go-pkg-civars/internal/source"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/jobtmpl"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/varexp"
)

// ErrMissingJobType 未提供作业类型。
var ErrMissingJobType = errors.New("JOB_TYPE environment variable is required")

// Runner 一次解析运行的输入。零值不可用，Config 必填。
type Runner struct {
	Config *config.Config
	// Environ 形如 "KEY=value" 的运行时变量，通常为 os.Environ()。
	Environ []string
	// Source 模板来源，为 nil 时由 [NewSource] 根据 Config 创建。
	Source source.Source
	Logger *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	return slog.Default()
}

// NewSource 根据配置选择本地文件或远程下载，日志写入 logger。
func NewSource(cfg *config.Config, logger *slog.Logger) source.Source {
	if cfg.Template.Local {
		return source.File{Path: cfg.Template.LocalPath, Logger: logger}
	}

	return source.HTTP{
		BaseURL: cfg.Template.URL,
		Commit:  cfg.Template.Commit,
		Path:    cfg.Template.Path,
		Timeout: cfg.Template.Timeout,
		Logger:  logger,
	}
}

// Template 获取并解析模板文档。
func (r *Runner) Template(ctx context.Context) (jobtmpl.Table, error) {
	src := r.Source
	if src == nil {
		src = NewSource(r.Config, r.logger())
	}

	doc, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	table, err := jobtmpl.Parse(doc.Name, doc.Data)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("Parsed template", "name", doc.Name, "jobs", len(table), "digest", doc.Digest)

	return table, nil
}

// Defaults 解析目标作业的默认值，只保留命名空间前缀内的变量。
//
// 作业类型为空时返回 [ErrMissingJobType]，此时不会获取模板。
func (r *Runner) Defaults(ctx context.Context) (map[string]string, error) {
	if r.Config.JobType == "" {
		return nil, ErrMissingJobType
	}

	table, err := r.Template(ctx)
	if err != nil {
		return nil, err
	}

	log := r.logger()
	target := r.Config.JobName()
	var extends []string
	if job, ok := table[target]; ok {
		extends = job.Extends
	}
	log.Debug("Target job", "jobType", r.Config.JobType, "job", target, "extends", extends)

	resolved := jobtmpl.Resolve(table, target, jobtmpl.WithLogger(log))

	return filterPrefix(resolved, r.Config.Expand.Prefix), nil
}

// Runtime 返回运行时已定义的前缀变量：先读 env 文件，再由 Environ 覆盖。
func (r *Runner) Runtime() (map[string]string, error) {
	all, err := r.runtimeAll()
	if err != nil {
		return nil, err
	}

	return filterPrefix(all, r.Config.Expand.Prefix), nil
}

// Environment 返回完整的运行时变量（env 文件 + Environ），不做前缀过滤。
func (r *Runner) Environment() (map[string]string, error) {
	return r.runtimeAll()
}

func (r *Runner) runtimeAll() (map[string]string, error) {
	vars := make(map[string]string)
	if files := r.Config.Export.EnvFiles; len(files) > 0 {
		fromFiles, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("read env files: %w", err)
		}
		maps.Copy(vars, fromFiles)
	}
	maps.Copy(vars, ParseEnviron(r.Environ))

	return vars, nil
}

// MissingDefaults 返回运行时尚未定义的默认值。
func (r *Runner) MissingDefaults(ctx context.Context) (map[string]string, error) {
	defaults, err := r.Defaults(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := r.Runtime()
	if err != nil {
		return nil, err
	}

	log := r.logger()
	missing := make(map[string]string, len(defaults))
	for name, value := range defaults {
		if _, ok := overrides[name]; ok {
			continue
		}
		missing[name] = value
		log.Debug("Setting default", "name", name, "value", value)
	}
	log.Info("Defaults loaded", "job", r.Config.JobName(), "count", len(missing))

	return missing, nil
}

// Expander 根据配置创建展开器。
func (r *Runner) Expander() *varexp.Expander {
	order := varexp.OrderByReferenceCount
	if r.Config.Expand.Topological {
		order = varexp.OrderTopological
	}

	return varexp.New(
		varexp.WithPrefix(r.Config.Expand.Prefix),
		varexp.WithMaxPasses(r.Config.Expand.MaxPasses),
		varexp.WithCommandVar(r.Config.Expand.CommandVar),
		varexp.WithOrder(order),
		varexp.WithLogger(r.logger()),
	)
}

// Expand 展开运行时前缀变量。
func (r *Runner) Expand() (varexp.Result, error) {
	overrides, err := r.Runtime()
	if err != nil {
		return varexp.Result{}, err
	}

	return r.Expander().Run(overrides), nil
}

// Resolve 执行完整流程：默认值 → 运行时覆盖 → 展开。
func (r *Runner) Resolve(ctx context.Context) (varexp.Result, error) {
	defaults, err := r.Defaults(ctx)
	if err != nil {
		return varexp.Result{}, err
	}
	overrides, err := r.Runtime()
	if err != nil {
		return varexp.Result{}, err
	}

	vars := Merge(defaults, overrides)
	r.logger().Info("Resolving variables",
		"job", r.Config.JobName(), "defaults", len(defaults), "runtime", len(overrides), "total", len(vars))

	return r.Expander().Run(vars), nil
}

// Merge 返回 defaults 与 overrides 的合并结果，同名时 overrides 优先。
func Merge(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	maps.Copy(out, defaults)
	maps.Copy(out, overrides)

	return out
}

// ParseEnviron 把 "KEY=value" 列表转为 map，缺少 "=" 的条目被忽略，重复 key 以最后一个为准。
func ParseEnviron(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		out[name] = value
	}

	return out
}

func filterPrefix(vars map[string]string, prefix string) map[string]string {
	out := make(map[string]string, len(vars))
	for name, value := range vars {
		if strings.HasPrefix(name, prefix) {
			out[name] = value
		}
	}

	return out
}
