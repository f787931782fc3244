package analyzer

import "context"

// CalculateBusFactor returns how many top contributors together reach
// threshold of all commits, and who they are.
//
// Contributors are walked in descending commit order and accumulated until
// the running total reaches threshold*total. A threshold <= 0 is met by the
// first contributor; a threshold > 1 is never met and yields every contributor.
// No contributor data yields (0, nil).
func (a *Analyzer) CalculateBusFactor(ctx context.Context, threshold float64) (int, []string, error) {
	contributors, err := a.Contributors(ctx)
	if err != nil {
		return 0, nil, err
	}

	busFactor, core := busFactor(contributors, threshold)
	return busFactor, core, nil
}

func busFactor(contributors []ContributorStat, threshold float64) (int, []string) {
	if len(contributors) == 0 {
		return 0, nil
	}

	total := 0
	for _, c := range contributors {
		total += c.TotalCommits
	}
	target := float64(total) * threshold

	accumulated := 0
	core := make([]string, 0, len(contributors))
	for _, c := range contributors {
		accumulated += c.TotalCommits
		core = append(core, c.Login)
		if float64(accumulated) >= target {
			break
		}
	}

	return len(core), core
}
