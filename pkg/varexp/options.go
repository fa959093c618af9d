package varexp

import "log/slog"

const (
	// DefaultMaxPasses 默认最大展开轮数。
	DefaultMaxPasses = 10
	// DefaultPrefix 默认命名空间前缀。
	DefaultPrefix = "CI_TRON_"
	// DefaultCommandVar 保存多行执行命令的变量，被引用时换行替换为 " ; "。
	DefaultCommandVar = "CI_TRON__B2C_EXEC_CMD"
)

// Order 决定每一轮内变量的处理顺序。
type Order int

const (
	// OrderByReferenceCount 按引用数量升序，同数量按名字排序。
	OrderByReferenceCount Order = iota
	// OrderTopological 按引用关系拓扑排序，被依赖者先处理；
	// 存在环时对剩余变量回退到 [OrderByReferenceCount]。
	OrderTopological
)

func (o Order) String() string {
	switch o {
	case OrderTopological:
		return "topological"
	default:
		return "reference-count"
	}
}

// options 展开选项。
type options struct {
	maxPasses  int
	prefix     string
	commandVar string
	order      Order
	logger     *slog.Logger
}

// Option 展开选项函数。
type Option func(*options)

// WithMaxPasses 设置最大轮数，小于 1 时使用 [DefaultMaxPasses]。
func WithMaxPasses(n int) Option {
	return func(o *options) {
		o.maxPasses = n
	}
}

// WithPrefix 设置识别引用的命名空间前缀。
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithCommandVar 设置多行命令变量名，空字符串表示关闭换行替换。
func WithCommandVar(name string) Option {
	return func(o *options) {
		o.commandVar = name
	}
}

// WithOrder 设置轮内处理顺序。
func WithOrder(order Order) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithLogger 设置诊断日志输出，默认 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
