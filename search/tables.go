package search

// Pair-enumeration tables for drawing an ordered pair of distinct positions
// out of a slot row. For a row of length l there are combs[l] = l*(l-1)
// ordered pairs; pairPs[x] and pairQs[x] give the positions of the x-th
// pair, enumerated row-major starting from (1,0). Rows longer than
// maxRowLen slots never occur in practice.
const maxRowLen = 80

var (
	combs  []int32
	pairPs []int32
	pairQs []int32
)

func init() {
	combs = make([]int32, 0, maxRowLen+1)
	combs = append(combs, 0, 0)
	pairPs = make([]int32, 0, maxRowLen*maxRowLen)
	pairQs = make([]int32, 0, maxRowLen*maxRowLen)
	for x := int32(1); x < maxRowLen; x++ {
		for y := int32(0); y < x; y++ {
			pairPs = append(pairPs, x)
			pairQs = append(pairQs, y)
			pairPs = append(pairPs, y)
			pairQs = append(pairQs, x)
		}
		combs = append(combs, int32(len(pairPs)))
	}
}
