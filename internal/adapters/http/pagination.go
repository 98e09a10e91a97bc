package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PaginatedResponse wraps list results with pagination metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination contains offset-based pagination info. Totals are not counted;
// HasMore is set when the page came back full.
type Pagination struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses.
// Query parameters other than offset and limit are carried over.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	var extra []string
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if key == "offset" || key == "limit" {
			return
		}
		extra = append(extra, url.QueryEscape(key)+"="+url.QueryEscape(string(v)))
	})
	page := func(offset int) string {
		q := fmt.Sprintf("offset=%d&limit=%d", offset, p.Limit)
		if len(extra) > 0 {
			q += "&" + strings.Join(extra, "&")
		}
		return base + "?" + q
	}

	links := []string{fmt.Sprintf(`<%s>; rel="first"`, page(0))}

	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		links = append(links, fmt.Sprintf(`<%s>; rel="prev"`, page(prev)))
	}

	if p.HasMore {
		links = append(links, fmt.Sprintf(`<%s>; rel="next"`, page(p.Offset+p.Limit)))
	}

	c.Set("Link", strings.Join(links, ", "))
}
