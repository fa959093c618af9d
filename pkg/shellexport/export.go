// Package shellexport 把变量集合输出为 shell export 语句。
//
// 每个变量一行：
//
//	export NAME='value'
//
// 值中的单引号写成 '\'' （先闭合、转义、再重新打开）。
// 命中拒绝列表的变量不输出，改为一行注释说明原因：
//
//	# HOME not stored (shell variable)
//	# CI_TRON_API_TOKEN not stored (credentials)
package shellexport

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// DefaultShellVars shell 自身维护的变量，不应被导出覆盖。
var DefaultShellVars = []string{"_", "HOME", "HOSTNAME", "OLDPWD", "PATH", "PWD", "TERM", "XDG_RUNTIME_DIR"}

// DefaultSensitiveKeywords 变量名包含这些子串时视为凭据。
var DefaultSensitiveKeywords = []string{"TOKEN", "PASSWORD", "SECRET", "KEY"}

// Reason 变量被拒绝导出的原因。
type Reason string

const (
	ReasonShellVariable Reason = "shell variable"
	ReasonCredentials   Reason = "credentials"
)

// Quoting 值的引用方式。
type Quoting int

const (
	// QuoteAlways 总是使用单引号。
	QuoteAlways Quoting = iota
	// QuoteMinimal 仅在含有特殊字符时加引号（与 Python shlex.quote 一致）。
	QuoteMinimal
)

// Writer 按名字排序输出 export 语句。
type Writer struct {
	shellVars map[string]struct{}
	sensitive []string
	deny      bool
	quoting   Quoting
}

// Option Writer 选项函数。
type Option func(*Writer)

// WithShellVars 替换 shell 变量列表。
func WithShellVars(names ...string) Option {
	return func(w *Writer) {
		w.shellVars = make(map[string]struct{}, len(names))
		for _, n := range names {
			w.shellVars[n] = struct{}{}
		}
	}
}

// WithSensitiveKeywords 替换凭据关键字列表。
func WithSensitiveKeywords(keywords ...string) Option {
	return func(w *Writer) {
		w.sensitive = slices.Clone(keywords)
	}
}

// WithoutDenyList 关闭拒绝列表，所有变量都会输出。
func WithoutDenyList() Option {
	return func(w *Writer) {
		w.deny = false
	}
}

// WithQuoting 设置引用方式，默认 [QuoteAlways]。
func WithQuoting(q Quoting) Option {
	return func(w *Writer) {
		w.quoting = q
	}
}

// New 创建 Writer，默认启用拒绝列表。
func New(opts ...Option) *Writer {
	w := &Writer{deny: true, quoting: QuoteAlways}
	WithShellVars(DefaultShellVars...)(w)
	WithSensitiveKeywords(DefaultSensitiveKeywords...)(w)
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Denied 判断 name 是否命中拒绝列表。
func (w *Writer) Denied(name string) (Reason, bool) {
	if !w.deny {
		return "", false
	}
	if _, ok := w.shellVars[name]; ok {
		return ReasonShellVariable, true
	}
	for _, kw := range w.sensitive {
		if kw != "" && strings.Contains(name, kw) {
			return ReasonCredentials, true
		}
	}

	return "", false
}

// Line 返回单个变量的输出行（不含换行符）。
func (w *Writer) Line(name, value string) string {
	if reason, ok := w.Denied(name); ok {
		return fmt.Sprintf("# %s not stored (%s)", name, reason)
	}

	quoted := Quote(value)
	if w.quoting == QuoteMinimal {
		quoted = QuoteMinimalValue(value)
	}

	return "export " + name + "=" + quoted
}

// Write 按名字排序把 vars 写入 out。
func (w *Writer) Write(out io.Writer, vars map[string]string) error {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	bw := bufio.NewWriter(out)
	for _, name := range names {
		if _, err := bw.WriteString(w.Line(name, vars[name]) + "\n"); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return bw.Flush()
}

// Quote 用单引号包裹 s，内部单引号写成 '\''。
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteMinimalValue 仅在需要时加引号：空串为 ''，全部是安全字符时原样返回。
func QuoteMinimalValue(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsFunc(s, isUnsafe) {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// isUnsafe 安全字符为 [A-Za-z0-9_@%+=:,./-]。
func isUnsafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("_@%+=:,./-", r):
		return false
	default:
		return true
	}
}
