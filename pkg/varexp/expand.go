package varexp

import (
	"log/slog"
	"maps"
	"strings"
)

// Result 一次展开的结果。
type Result struct {
	// Vars 展开后的变量集合，与输入不共享底层 map。
	Vars map[string]string
	// Passes 实际执行的轮数。
	Passes int
	// Converged 为 true 表示在轮数上限内到达不动点。
	Converged bool
}

// Expander 执行多轮引用展开，零值不可用，使用 [New] 创建。
type Expander struct {
	opts options
	scan scanner
}

// New 创建 Expander。
func New(opts ...Option) *Expander {
	o := options{
		maxPasses:  DefaultMaxPasses,
		prefix:     DefaultPrefix,
		commandVar: DefaultCommandVar,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxPasses < 1 {
		o.maxPasses = DefaultMaxPasses
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &Expander{opts: o, scan: scanner{prefix: o.prefix}}
}

// Expand 使用默认选项展开 vars，返回新的 map。
//
// maxPasses 小于 1 时使用 [DefaultMaxPasses]。
func Expand(vars map[string]string, maxPasses int) map[string]string {
	return New(WithMaxPasses(maxPasses)).Run(vars).Vars
}

// Run 展开 vars 直到不动点或达到轮数上限。输入 map 不会被修改。
func (e *Expander) Run(vars map[string]string) Result {
	current := maps.Clone(vars)
	if current == nil {
		current = make(map[string]string)
	}
	log := e.opts.logger

	for pass := 1; pass <= e.opts.maxPasses; pass++ {
		changed := false

		for _, name := range e.order(current) {
			before := current[name]
			log.Debug("Expanding variable", "pass", pass, "name", name, "before", before)

			after := e.expandValue(before, current)
			if after == before {
				continue
			}

			current[name] = after
			changed = true
			log.Debug("Expanded variable", "pass", pass, "name", name, "after", after)
		}

		if !changed {
			log.Info("No more expansions needed", "passes", pass)

			return Result{Vars: current, Passes: pass, Converged: true}
		}
	}

	log.Warn("Reached maximum passes, may have unresolved references", "maxPasses", e.opts.maxPasses)

	return Result{Vars: current, Passes: e.opts.maxPasses, Converged: false}
}

// expandValue 用 vars 的当前值替换 value 中的每个引用。
//
// 每次替换作用于上一次替换后的字符串。
func (e *Expander) expandValue(value string, vars map[string]string) string {
	out := value
	for _, ref := range e.scan.names(value) {
		refValue := vars[ref]
		if ref == e.opts.commandVar && refValue != "" {
			refValue = strings.ReplaceAll(refValue, "\n", " ; ")
		}

		out = replaceBraced(out, ref, refValue)
		out = replaceBare(out, ref, refValue)
	}

	return out
}

// ContainsReference 判断 value 是否含有 prefix 命名空间的引用标记。
func ContainsReference(value, prefix string) bool {
	return scanner{prefix: prefix}.contains(value)
}

// References 返回 value 中引用的 prefix 命名空间变量名，去重并排序。
func References(value, prefix string) []string {
	return scanner{prefix: prefix}.names(value)
}
