package jobtmpl

import (
	"log/slog"
	"maps"
	"slices"
)

// Resolve 计算 target 作业展平后的变量集合。
//
// target 不存在时返回空 map。返回值与 jobs 中的数据不共享底层 map。
func Resolve(jobs Table, target string, opts ...ResolveOption) map[string]string {
	r := newResolver(jobs, opts...)
	if _, ok := jobs[target]; !ok {
		r.logger.Warn("Job not found in template, using no defaults", "job", target)

		return map[string]string{}
	}

	return maps.Clone(r.resolve(target))
}

// ResolveOption 解析选项函数。
type ResolveOption func(*resolver)

// WithLogger 设置诊断日志输出，默认 slog.Default()。
func WithLogger(logger *slog.Logger) ResolveOption {
	return func(r *resolver) {
		r.logger = logger
	}
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	resolved
)

// resolver 持有一次解析的状态，visiting 与 resolved 分开标记。
type resolver struct {
	jobs   Table
	state  map[string]visitState
	cache  map[string]map[string]string
	logger *slog.Logger
}

func newResolver(jobs Table, opts ...ResolveOption) *resolver {
	r := &resolver{
		jobs:  jobs,
		state: make(map[string]visitState),
		cache: make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

func (r *resolver) resolve(name string) map[string]string {
	switch r.state[name] {
	case resolved:
		return r.cache[name]
	case visiting:
		r.logger.Warn("Inheritance cycle, skipping repeated job", "job", name)

		return nil
	}

	job, ok := r.jobs[name]
	if !ok {
		r.logger.Warn("Parent job not found in template", "job", name)

		return nil
	}

	r.state[name] = visiting
	r.logger.Debug("Resolving job", "job", name, "extends", job.Extends)

	result := maps.Clone(job.Variables)
	if result == nil {
		result = make(map[string]string)
	}
	// 父作业按逆序求值，再按声明顺序合并，已有 key 不覆盖。
	parents := make([]map[string]string, len(job.Extends))
	for i, parent := range slices.Backward(job.Extends) {
		parents[i] = r.resolve(parent)
	}
	for _, vars := range parents {
		for key, value := range vars {
			if _, exists := result[key]; !exists {
				result[key] = value
			}
		}
	}

	r.state[name] = resolved
	r.cache[name] = result

	return result
}
