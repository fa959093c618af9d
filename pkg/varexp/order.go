package varexp

import (
	"cmp"
	"slices"
)

// candidate 本轮待处理的变量。
type candidate struct {
	name  string
	count int
	refs  []string
}

func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(a.count, b.count); c != 0 {
		return c
	}

	return cmp.Compare(a.name, b.name)
}

// order 返回本轮需要处理的变量名，只包含当前值含有引用的变量。
func (e *Expander) order(vars map[string]string) []string {
	var cands []candidate
	for name, value := range vars {
		if !e.scan.contains(value) {
			continue
		}
		cands = append(cands, candidate{
			name:  name,
			count: e.scan.count(value),
			refs:  e.scan.names(value),
		})
	}
	slices.SortFunc(cands, compareCandidates)

	if e.opts.order == OrderTopological {
		return topological(cands)
	}

	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}

	return out
}

// topological 让被引用的候选变量排在引用者之前（Kahn 算法）。
//
// cands 已按引用数量排好序，入度相同的节点保持该次序；
// 剩余节点全部处在环上或依赖环时，取次序最靠前的一个打破僵局。
func topological(cands []candidate) []string {
	index := make(map[string]int, len(cands))
	for i, c := range cands {
		index[c.name] = i
	}

	// pending[i] 为 cands[i] 尚未处理的候选依赖数；dependents[j] 为依赖 cands[j] 的候选。
	pending := make([]int, len(cands))
	dependents := make([][]int, len(cands))
	for i, c := range cands {
		for _, ref := range c.refs {
			j, ok := index[ref]
			if !ok || j == i {
				continue
			}
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	done := make([]bool, len(cands))
	out := make([]string, 0, len(cands))
	for len(out) < len(cands) {
		next := -1
		for i := range cands {
			if !done[i] && pending[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			for i := range cands {
				if !done[i] {
					next = i
					break
				}
			}
		}

		done[next] = true
		out = append(out, cands[next].name)
		for _, d := range dependents[next] {
			pending[d]--
		}
	}

	return out
}
