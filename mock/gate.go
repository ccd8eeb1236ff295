package mock

import "github.com/fwojciec/harvest"

var _ harvest.Gate = (*Gate)(nil)

// Gate is a mock implementation of harvest.Gate.
type Gate struct {
	ClassifyFn func(resp *harvest.Response) harvest.Verdict
}

func (g *Gate) Classify(resp *harvest.Response) harvest.Verdict {
	return g.ClassifyFn(resp)
}
