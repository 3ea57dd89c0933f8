package dataset

import "gonum.org/v1/gonum/mat"

// SplitIndex returns ⌊0.8n⌋, the size of the training partition.
func SplitIndex(n int) int {
	return 4 * n / 5
}

// Split partitions e in order: the first SplitIndex(n) rows train, the rest
// are held out. Rows are not shuffled, so the caller's order decides which
// rows land in the holdout. Both partitions own copies of their data.
func Split(e *Extraction) (train, test *Extraction) {
	n := e.Len()
	s := SplitIndex(n)
	return e.slice(0, s), e.slice(s, n)
}

func (e *Extraction) slice(from, to int) *Extraction {
	out := &Extraction{
		Features: append([]string(nil), e.Features...),
		Target:   e.Target,
		X:        &mat.Dense{},
		Y:        &mat.VecDense{},
	}
	if to <= from {
		return out
	}
	_, k := e.X.Dims()
	out.X = mat.DenseCopyOf(e.X.Slice(from, to, 0, k))
	out.Y = mat.VecDenseCopyOf(e.Y.SliceVec(from, to))
	return out
}
