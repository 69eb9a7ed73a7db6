package strategy

// Movement returns the fraction of keys in before whose owner differs in after.
//
// Keys missing from after count as moved. Returns 0 when before holds no keys.
//
// Example:
//
//	before, _ := s.Assign([]string{"a", "b"}, keys)
//	after, _ := s.Assign([]string{"a", "b", "c"}, keys)
//	fmt.Printf("%.1f%% of keys moved\n", strategy.Movement(before, after)*100)
func Movement(before, after map[string][]string) float64 {
	owners := make(map[string]string)
	for dest, keys := range after {
		for _, key := range keys {
			owners[key] = dest
		}
	}

	total, moved := 0, 0
	for dest, keys := range before {
		for _, key := range keys {
			total++
			if owner, ok := owners[key]; !ok || owner != dest {
				moved++
			}
		}
	}

	if total == 0 {
		return 0
	}

	return float64(moved) / float64(total)
}
