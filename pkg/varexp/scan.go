package varexp

import (
	"slices"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// 引用扫描
// ═══════════════════════════════════════════════════════════════════════════

func isVarNameChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_' || (ch >= '0' && ch <= '9')
}

// scanner 识别某个命名空间前缀下的变量引用。
type scanner struct {
	prefix string
}

// sigilAt 判断 text[i] 处是否为 "$" 或 "${" 后紧跟前缀。
//
// 返回前缀起始位置；不匹配时返回 -1。
func (s scanner) sigilAt(text string, i int) int {
	if text[i] != '$' {
		return -1
	}
	j := i + 1
	if j < len(text) && text[j] == '{' {
		j++
	}
	if !strings.HasPrefix(text[j:], s.prefix) {
		return -1
	}

	return j
}

// count 统计值中的引用标记数量（不要求名字完整）。
func (s scanner) count(text string) int {
	n := 0
	for i := 0; i < len(text); {
		start := s.sigilAt(text, i)
		if start < 0 {
			i++
			continue
		}
		n++
		i = start + len(s.prefix)
	}

	return n
}

// contains 判断值中是否至少有一个引用标记。
func (s scanner) contains(text string) bool {
	for i := range len(text) {
		if s.sigilAt(text, i) >= 0 {
			return true
		}
	}

	return false
}

// names 返回值中引用到的变量名集合，去重后按名字排序。
//
// 名字必须在前缀之后至少再有一个变量名字符。
func (s scanner) names(text string) []string {
	seen := make(map[string]struct{})
	for i := 0; i < len(text); {
		start := s.sigilAt(text, i)
		if start < 0 {
			i++
			continue
		}

		end := start + len(s.prefix)
		for end < len(text) && isVarNameChar(text[end]) {
			end++
		}
		if end > start+len(s.prefix) {
			seen[text[start:end]] = struct{}{}
		}
		i = end
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)

	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// 替换
// ═══════════════════════════════════════════════════════════════════════════

// replaceBraced 替换所有 ${name}。未闭合的 "${name" 不会匹配。
func replaceBraced(text, name, value string) string {
	return strings.ReplaceAll(text, "${"+name+"}", value)
}

// replaceBare 替换所有 $name，要求其后不是变量名字符，
// 避免 $CI_TRON_B 命中 $CI_TRON_B2 的前半段。替换结果不会被再次扫描。
func replaceBare(text, name, value string) string {
	token := "$" + name
	if !strings.Contains(text, token) {
		return text
	}

	var buf strings.Builder
	buf.Grow(len(text))

	pos := 0
	for {
		k := strings.Index(text[pos:], token)
		if k < 0 {
			break
		}
		k += pos
		end := k + len(token)
		if end < len(text) && isVarNameChar(text[end]) {
			buf.WriteString(text[pos : k+1])
			pos = k + 1
			continue
		}
		buf.WriteString(text[pos:k])
		buf.WriteString(value)
		pos = end
	}
	buf.WriteString(text[pos:])

	return buf.String()
}
