package templates

import "strconv"

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}

// formatThreshold renders a share such as 0.75 as "75%".
func formatThreshold(share float64) string {
	return strconv.FormatFloat(share*100, 'f', -1, 64) + "%"
}
