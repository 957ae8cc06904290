package trainer

import "sort"

// substrFreq describes a repeated substring of the flat corpus buffer:
// text[start:start+length] occurs count times.
type substrFreq struct {
	start  int
	length int
	count  int
}

// repeatedSubstrings enumerates every right-maximal repeated substring of
// text together with its occurrence count. It builds a suffix array, derives
// the LCP array (Kasai), and walks the LCP intervals with a stack; each
// interval corresponds to an internal suffix-tree node, i.e. a substring
// that occurs at least twice and is not always followed by the same
// character.
func repeatedSubstrings(text []rune) []substrFreq {
	n := len(text)
	if n < 2 {
		return nil
	}

	sa := make([]int, n)
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(a, b int) bool {
		i, j := sa[a], sa[b]
		for i < n && j < n {
			if text[i] != text[j] {
				return text[i] < text[j]
			}
			i++
			j++
		}
		return i == n
	})

	rank := make([]int, n)
	for i, s := range sa {
		rank[s] = i
	}

	lcp := make([]int, n)
	var h int
	for i := 0; i < n; i++ {
		if rank[i] == 0 {
			h = 0
			continue
		}
		j := sa[rank[i]-1]
		for i+h < n && j+h < n && text[i+h] == text[j+h] {
			h++
		}
		lcp[rank[i]] = h
		if h > 0 {
			h--
		}
	}

	type interval struct {
		depth int
		left  int
	}
	var out []substrFreq
	var stack []interval
	for i := 1; i <= n; i++ {
		var depth int
		if i < n {
			depth = lcp[i]
		}
		left := i - 1
		for len(stack) > 0 && stack[len(stack)-1].depth > depth {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, substrFreq{
				start:  sa[top.left],
				length: top.depth,
				count:  i - top.left,
			})
			left = top.left
		}
		if depth > 0 && (len(stack) == 0 || stack[len(stack)-1].depth < depth) {
			stack = append(stack, interval{depth: depth, left: left})
		}
	}
	return out
}
