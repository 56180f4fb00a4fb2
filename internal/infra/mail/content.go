package mail

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	brTag         = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphTag  = regexp.MustCompile(`(?i)</?p>`)
	anyTag        = regexp.MustCompile(`<[^>]*>`)
	subjectLine   = regexp.MustCompile(`(?im)^[ \t]*Subject:\s*(.+)$`)
	subjectBlock  = regexp.MustCompile(`(?i)<[^>]*>[^<]*Subject:[\s\S]*?</[^>]+>`)
	leadingLine   = regexp.MustCompile(`(?i)^[\s\n]*Subject:[^\n]*\n?`)
	subjectInline = regexp.MustCompile(`(?i)<[^>]*>\s*Subject:[^<]*</?[^>]*>`)
	absoluteHref  = regexp.MustCompile(`(?i)href=(?:"(https?://[^'"\s]+)"|'(https?://[^'"\s]+)')`)
)

// ParseSubject pulls an embedded "Subject: ..." line out of a body. It returns
// a nil subject and the untouched body when there is none.
func ParseSubject(raw string) (*string, string) {
	text := brTag.ReplaceAllString(raw, "\n")
	text = paragraphTag.ReplaceAllString(text, "\n")
	text = strings.TrimSpace(anyTag.ReplaceAllString(text, ""))

	m := subjectLine.FindStringSubmatch(text)
	if m == nil {
		return nil, raw
	}
	subject := strings.TrimSpace(m[1])

	body := replaceFirst(subjectBlock, raw)
	if body == raw {
		body = replaceFirst(leadingLine, raw)
		body = replaceFirst(subjectInline, body)
	}

	return &subject, strings.TrimSpace(body)
}

// RewriteLinks routes every absolute http(s) href through the click tracker,
// keeping the original quote character.
func RewriteLinks(body, baseURL, trackID string) string {
	return absoluteHref.ReplaceAllStringFunc(body, func(match string) string {
		sub := absoluteHref.FindStringSubmatch(match)
		quote, target := `"`, sub[1]
		if target == "" {
			quote, target = `'`, sub[2]
		}
		return "href=" + quote + ClickURL(baseURL, trackID, target) + quote
	})
}

func ClickURL(baseURL, trackID, target string) string {
	return fmt.Sprintf("%s/track/click?hid=%s&url=%s", baseURL, url.QueryEscape(trackID), url.QueryEscape(target))
}

func OpenURL(baseURL, trackID string) string {
	return fmt.Sprintf("%s/track/open?hid=%s", baseURL, url.QueryEscape(trackID))
}

func TrackingPixel(baseURL, trackID string) string {
	return fmt.Sprintf(`<img src="%s" alt="" width="1" height="1" style="width:1px;height:1px;border:0;" />`, OpenURL(baseURL, trackID))
}

// Decorate rewrites links and appends the open pixel after a blank line.
func Decorate(body, baseURL, trackID string) string {
	return RewriteLinks(body, baseURL, trackID) + "\n\n" + TrackingPixel(baseURL, trackID)
}

// ResolveBaseURL prefers explicit, then configured, then localhost on port.
func ResolveBaseURL(explicit, configured, port string) string {
	base := explicit
	if base == "" {
		base = configured
	}
	if base == "" {
		if port == "" {
			port = "5000"
		}
		base = "http://localhost:" + port
	}
	return strings.TrimRight(base, "/")
}

func replaceFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
