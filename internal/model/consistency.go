package model

// Dangling counts triplet rows whose TF/gene pair is absent from the TF2G
// table and whose gene/region pair is absent from the R2G table. Tables that
// are absent are not checked.
type Dangling struct {
	TF2G int
	R2G  int
}

func (d Dangling) Any() bool { return d.TF2G > 0 || d.R2G > 0 }

// CheckTriplets verifies that every triplet references pairs present in the
// component tables.
func (m *Model) CheckTriplets() Dangling {
	var d Dangling
	if m.Triplets == nil {
		return d
	}
	type pair struct{ a, b string }

	var tf2g, r2g map[pair]struct{}
	if m.TF2G != nil {
		tf2g = make(map[pair]struct{}, len(m.TF2G.Rows))
		for _, r := range m.TF2G.Rows {
			tf2g[pair{r.TF, r.Target}] = struct{}{}
		}
	}
	if m.R2G != nil {
		r2g = make(map[pair]struct{}, len(m.R2G.Rows))
		for _, r := range m.R2G.Rows {
			r2g[pair{r.Target, r.Region}] = struct{}{}
		}
	}
	for _, r := range m.Triplets.Rows {
		if tf2g != nil {
			if _, ok := tf2g[pair{r.TF, r.Gene}]; !ok {
				d.TF2G++
			}
		}
		if r2g != nil {
			if _, ok := r2g[pair{r.Gene, r.Region}]; !ok {
				d.R2G++
			}
		}
	}
	return d
}
