package scraper

// Frontier tracks the author detail pages already claimed during one crawl.
// The set only grows.
type Frontier struct {
	visited map[string]struct{}
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	return &Frontier{visited: make(map[string]struct{})}
}

// Claim marks url as visited and reports whether it was new
func (f *Frontier) Claim(url string) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.visited[url] = struct{}{}
	return true
}

// Len returns the number of claimed URLs
func (f *Frontier) Len() int {
	return len(f.visited)
}
