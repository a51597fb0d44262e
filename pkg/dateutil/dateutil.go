package dateutil

// AgeInYear returns the age reached during calendar year by someone born in birthYear.
// Projections work on whole years, so birthdays are assumed to have passed.
func AgeInYear(birthYear, year int) int {
	return year - birthYear
}

// FullRetirementAgeMonths returns the Social Security full retirement age in months.
func FullRetirementAgeMonths(birthYear int) int {
	switch {
	case birthYear <= 1937:
		return 65 * 12
	case birthYear <= 1942:
		// 65 and 2, 4, 6, 8, 10 months for 1938 through 1942
		return 65*12 + (birthYear-1937)*2
	case birthYear <= 1954:
		return 66 * 12
	case birthYear <= 1959:
		return 66*12 + (birthYear-1954)*2
	default: // 1960 and later
		return 67 * 12
	}
}

// FullRetirementAge returns the full retirement age in whole years, rounded down.
func FullRetirementAge(birthYear int) int {
	return FullRetirementAgeMonths(birthYear) / 12
}

// GetRMDAge returns the age when RMDs start for a given birth year (SECURE 2.0).
func GetRMDAge(birthYear int) int {
	switch {
	case birthYear <= 1950:
		return 72
	case birthYear >= 1951 && birthYear <= 1959:
		return 73
	default: // 1960 and later
		return 75
	}
}

// IsMedicareEligible reports whether someone of age is 65 or older
func IsMedicareEligible(age int) bool {
	return age >= 65
}

// YearsBetween counts calendar years from start to end, never negative.
func YearsBetween(start, end int) int {
	if end < start {
		return 0
	}
	return end - start
}
