package archive

import (
	"strconv"
	"strings"
)

const (
	MainContainerXPath = "/html/body/div[1]/div/div[2]/div/div/div/main/div"

	// ItemAnchorPath is looked up below one child div of the main container.
	// The article may sit at any depth; the steps after it are direct children.
	ItemAnchorPath = "article/div/div/div[1]/header/h1/a"
)

// LastPageXPaths are tried in order; the pagination markup moves the
// "last page" link depending on which page is current.
var LastPageXPaths = []string{
	"/html/body/div[1]/div/div[2]/div/div/div/main/nav/div/a[2]",
	"/html/body/div[1]/div/div[2]/div/div/div/main/nav/div/a[4]",
}

// ParsePageCount reads the page number out of a pagination link whose text
// looks like "PAGE\n50". The first line made only of digits wins. When no
// such line exists it returns 1 and false.
func ParsePageCount(text string) (int, bool) {
	for _, part := range strings.Split(text, "\n") {
		part = strings.TrimSpace(part)
		if !isDigits(part) {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if n < 1 {
			n = 1
		}
		return n, true
	}
	return 1, false
}
