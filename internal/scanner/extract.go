package scanner

import "regexp"

// inlineScriptPattern matches <script> or <script type="..."> followed by
// the shortest body up to </script>. (?s) lets the body span lines.
var inlineScriptPattern = regexp.MustCompile(`(?s)<script(?:\s+type="[^"]*")?\s*>(.*?)</script>`)

// Extract returns the bodies of the inline scripts in content, in order
// of appearance. The result is empty when nothing matches.
func Extract(content string) []string {
	matches := inlineScriptPattern.FindAllStringSubmatch(content, -1)
	scripts := make([]string, 0, len(matches))
	for _, m := range matches {
		scripts = append(scripts, m[1])
	}
	return scripts
}
