package dateutil

import "fmt"

// MonthsPerYear is the length of one tax cycle
const MonthsPerYear = 12

// YearOfMonth returns the 1-based simulation year containing the 1-based month
func YearOfMonth(month int) int {
	return (month-1)/MonthsPerYear + 1
}

// MonthOfYear returns the 1-based position of month within its year
func MonthOfYear(month int) int {
	return (month-1)%MonthsPerYear + 1
}

// IsCycleStart reports whether month opens a 12-month tax cycle
func IsCycleStart(month int) bool {
	return month%MonthsPerYear == 1
}

// IsCycleEnd reports whether month closes a 12-month tax cycle
func IsCycleEnd(month int) bool {
	return month%MonthsPerYear == 0
}

// HorizonMonth returns the month index at which a horizon of the given years is captured
func HorizonMonth(years int) int {
	return years * MonthsPerYear
}

// Label renders a month index as "Y<year> M<month>"
func Label(month int) string {
	return fmt.Sprintf("Y%d M%02d", YearOfMonth(month), MonthOfYear(month))
}
