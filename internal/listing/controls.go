package listing

// PageLink is one cell of the page strip. Ellipsis cells carry no number.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type Controls struct {
	HasPrev bool       `json:"hasPrev"`
	HasNext bool       `json:"hasNext"`
	Pages   []PageLink `json:"pages"`
}

func NewControls(page, totalPages int) Controls {
	return Controls{
		HasPrev: page > 1,
		HasNext: page < totalPages,
		Pages:   PageStrip(page, totalPages),
	}
}

// PageStrip shows the first page, the last page and current±1; hidden runs collapse into one ellipsis
func PageStrip(current, total int) []PageLink {
	if total <= 0 {
		return []PageLink{}
	}

	var links []PageLink
	prev := 0
	for n := 1; n <= total; n++ {
		visible := n == 1 || n == total || (n >= current-1 && n <= current+1)
		if !visible {
			continue
		}
		if prev != 0 && n-prev > 1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: n, Current: n == current})
		prev = n
	}
	return links
}
