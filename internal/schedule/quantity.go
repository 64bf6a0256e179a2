package schedule

// RoundQuantityToMultipleOf10 normalizes an imported order quantity to the
// nearest multiple of 10, ties rounding up. Anything at or below 14
// (including zero and negative input) becomes the minimum lot of 10.
func RoundQuantityToMultipleOf10(quantity int) int {
	if quantity <= 14 {
		return 10
	}
	return (quantity + 5) / 10 * 10
}
