package archive

import (
	"fmt"
	"strings"
)

// MonthURL builds the first listing page of a month archive.
func MonthURL(baseURL string, p Period) string {
	return fmt.Sprintf("%s/archives/date/%s/%s", strings.TrimRight(baseURL, "/"), p.Year, p.Month)
}

// PageURL builds page n of a listing. Page 1 is the month URL itself.
func PageURL(monthURL string, n int) string {
	if n <= 1 {
		return monthURL
	}
	return fmt.Sprintf("%s/page/%d", strings.TrimRight(monthURL, "/"), n)
}
