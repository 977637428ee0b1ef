package text

import "strings"

// Wrap breaks s into lines no wider than maxWidth according to width, which
// measures a candidate line. Words are never split: a word wider than
// maxWidth gets a line of its own. Newlines in s force a break. The widths
// of the returned lines are returned alongside them.
func Wrap(s string, maxWidth float64, width func(string) (float64, error)) ([]string, []float64, error) {
	var lines []string
	var widths []float64
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			widths = append(widths, 0)
			continue
		}
		line := words[0]
		w, err := width(line)
		if err != nil {
			return nil, nil, err
		}
		for _, word := range words[1:] {
			candidate := line + " " + word
			cw, err := width(candidate)
			if err != nil {
				return nil, nil, err
			}
			if cw <= maxWidth {
				line, w = candidate, cw
				continue
			}
			lines = append(lines, line)
			widths = append(widths, w)
			line = word
			if w, err = width(line); err != nil {
				return nil, nil, err
			}
		}
		lines = append(lines, line)
		widths = append(widths, w)
	}
	return lines, widths, nil
}
