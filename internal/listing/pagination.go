package listing

// PageLink is one entry of the pagination strip; Ellipsis entries carry no number
type PageLink struct {
	Number   int
	Current  bool
	Ellipsis bool
}

// VisiblePages computes the pagination strip. Up to five pages are all shown;
// beyond that the first and last page, current±1 and ellipsis markers.
func VisiblePages(current, total int) []PageLink {
	if total <= 0 {
		return nil
	}
	link := func(n int) PageLink {
		return PageLink{Number: n, Current: n == current}
	}
	pages := make([]PageLink, 0, 7)
	if total <= 5 {
		for i := 1; i <= total; i++ {
			pages = append(pages, link(i))
		}
		return pages
	}
	pages = append(pages, link(1))
	if current > 3 {
		pages = append(pages, PageLink{Ellipsis: true})
	}
	for i := max(2, current-1); i <= min(total-1, current+1); i++ {
		pages = append(pages, link(i))
	}
	if current < total-2 {
		pages = append(pages, PageLink{Ellipsis: true})
	}
	return append(pages, link(total))
}
