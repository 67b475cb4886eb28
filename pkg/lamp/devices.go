package lamp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lampbot/pkg/platform"
	"lampbot/pkg/sender"
)

// Paginate renders the device list as messages of at most perMessage
// entries and maxLength characters each. A maxLength of zero or less
// disables the length bound. A maxLength too small for the page header
// yields one entry per page, cut to maxLength.
func Paginate(objects []platform.Object, perMessage, maxLength int) []string {
	if len(objects) == 0 {
		return nil
	}
	if perMessage < 1 {
		perMessage = 1
	}

	// Reserve room for the widest possible header.
	reserve := utf8.RuneCountInString(header(len(objects), len(objects)))
	budget := 0
	if maxLength > 0 {
		budget = max(maxLength-reserve, 1)
	}

	var pages [][]string
	var page []string
	size := 0
	for _, obj := range objects {
		line := fmt.Sprintf("- %s (ID: %s)", obj.Name, obj.ID)
		if budget > 0 {
			line = sender.Truncate(line, budget)
		}
		n := utf8.RuneCountInString(line) + 1

		if len(page) == perMessage || (budget > 0 && len(page) > 0 && size+n > budget) {
			pages = append(pages, page)
			page, size = nil, 0
		}
		page = append(page, line)
		size += n
	}
	pages = append(pages, page)

	out := make([]string, 0, len(pages))
	for i, p := range pages {
		text := header(i+1, len(pages)) + strings.Join(p, "\n")
		if maxLength > 0 {
			text = sender.Truncate(text, maxLength)
		}
		out = append(out, text)
	}
	return out
}

func header(page, total int) string {
	return fmt.Sprintf("Available devices (%d/%d):\n", page, total)
}
