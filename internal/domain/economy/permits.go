package economy

// AreaLimit computes the construction area budget for a base: 500 area
// units for the first permit plus 250 for each additional permit. Zero or
// negative permits yield a zero budget.
func AreaLimit(permits int) int {
	if permits <= 0 {
		return 0
	}
	extra := permits - 1
	if extra < 0 {
		extra = 0
	}
	return 500 + extra*250
}
