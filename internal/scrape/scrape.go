// Package scrape extracts ship identifiers from wiki listing pages.
package scrape

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Countries lists every nation page the fleet is assembled from.
var Countries = []string{
	"japan",
	"usa",
	"germany",
	"ussr",
	"uk",
	"panasia",
	"france",
	"commonwealth",
	"italy",
	"pan_america",
	"europe",
}

var shipLinkPattern = regexp.MustCompile(`/games/worldofwarships/vehicles/(\w+\d+)`)

// ShipIDs pulls the unique vehicle identifiers out of a nation listing page.
// Order follows first appearance in the document.
func ShipIDs(html string, logger *slog.Logger) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing ship list: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		m := shipLinkPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	})

	logger.Debug("scraped ship list", "ships", len(ids))
	return ids, nil
}
