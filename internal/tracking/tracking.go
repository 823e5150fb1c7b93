// internal/tracking/tracking.go
package tracking

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
)

// pixelGIF is a 1x1 transparent GIF, served on every open-tracking request.
const pixelGIF = "R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

// PixelGIF returns the raw bytes of the transparent tracking pixel.
func PixelGIF() []byte {
	b, _ := base64.StdEncoding.DecodeString(pixelGIF)
	return b
}

var hrefPattern = regexp.MustCompile(`(?i)<a\s+href="([^"]+)"`)

// OpenURL builds the pixel URL embedded in outgoing email.
func OpenURL(baseURL, campaignID, customerID string) string {
	return fmt.Sprintf("%s/api/tracking/open/%s/%s", baseURL, campaignID, customerID)
}

// ClickURL builds the redirector URL a rewritten link points at.
func ClickURL(baseURL, campaignID, customerID, destination string) string {
	return fmt.Sprintf("%s/api/tracking/click/%s/%s?url=%s",
		baseURL, campaignID, customerID, url.QueryEscape(destination))
}

// RewriteLinks routes every hyperlink in the HTML through the click
// redirector, carrying the campaign/customer pair and the original
// destination.
func RewriteLinks(html, baseURL, campaignID, customerID string) string {
	return hrefPattern.ReplaceAllStringFunc(html, func(match string) string {
		m := hrefPattern.FindStringSubmatch(match)
		if len(m) < 2 {
			return match
		}
		return fmt.Sprintf(`<a href="%s"`, ClickURL(baseURL, campaignID, customerID, m[1]))
	})
}

// Inject rewrites all links and appends the open-tracking pixel. The result
// is the HTML actually handed to the send provider.
func Inject(html, baseURL, campaignID, customerID string) string {
	tracked := RewriteLinks(html, baseURL, campaignID, customerID)
	pixel := fmt.Sprintf(`<img src="%s" width="1" height="1" style="display:none;" alt="" />`,
		OpenURL(baseURL, campaignID, customerID))
	return tracked + pixel
}
