package ml

import "fmt"

// classNames is the fixed mapping from classifier class codes to the
// mechanical fault taxonomy. The codes are the labels the models were
// trained on and never change between model generations.
var classNames = map[int]string{
	0: "normal",
	1: "horizontal-misalignment",
	2: "vertical-misalignment",
	3: "imbalance",
	4: "ball_fault",
	5: "cage_fault",
	6: "outer_race",
}

// ClassName maps a class code to its fault name. Codes outside the
// taxonomy render as "clase_{code}" so a model trained with extra
// classes still produces a stable label.
func ClassName(code int) string {
	if name, ok := classNames[code]; ok {
		return name
	}
	return fmt.Sprintf("clase_%d", code)
}
