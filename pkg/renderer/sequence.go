package renderer

// GetSequence returns the indices of a longest strictly increasing
// subsequence of arr, ignoring zero entries (zero marks a new node).
//
// The result always starts from index 0, so an input whose first entry is
// zero may report index 0 as part of the sequence. Callers only consult
// the result for non-zero entries.
func GetSequence(arr []int) []int {
	if len(arr) == 0 {
		return nil
	}
	p := make([]int, len(arr))
	copy(p, arr)
	result := []int{0}
	for i, arrI := range arr {
		if arrI == 0 {
			continue
		}
		j := result[len(result)-1]
		if arr[j] < arrI {
			p[i] = j
			result = append(result, i)
			continue
		}
		u, v := 0, len(result)-1
		for u < v {
			c := (u + v) >> 1
			if arr[result[c]] < arrI {
				u = c + 1
			} else {
				v = c
			}
		}
		if arrI < arr[result[u]] {
			if u > 0 {
				p[i] = result[u-1]
			}
			result[u] = i
		}
	}
	u := len(result)
	v := result[u-1]
	for u > 0 {
		u--
		result[u] = v
		v = p[v]
	}
	return result
}
