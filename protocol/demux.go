package protocol

// SeparatedResults regroups the flat response of a separated command
// list into one group of lines per command, in server emission order.
//
// A ListOKSeparator closes the group accumulated so far; a separator
// with nothing before it is ignored, so no empty groups are ever
// emitted. A trailing group left open when the input ends is still
// returned, which keeps data from a response cut short by a failing
// command mid-list.
func SeparatedResults(lines []string) [][]string {
	groups := make([][]string, 0, len(lines))

	var group []string

	for _, line := range lines {
		if line == ListOKSeparator {
			if len(group) > 0 {
				groups = append(groups, group)
				group = nil
			}
			continue
		}

		group = append(group, line)
	}

	if len(group) > 0 {
		groups = append(groups, group)
	}

	return groups
}
