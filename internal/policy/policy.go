package policy

import (
	"strings"

	"github.com/nao1215/csphash/internal/model"
)

// ScriptSrc is the directive that receives the hash sources.
const ScriptSrc = "script-src"

// DefaultDigestSuffix is appended after every digest in the rendered
// script-src block. Existing consumer files were generated with it, so it
// stays unless configured otherwise.
const DefaultDigestSuffix = "="

// Directive is one CSP directive and its source list.
type Directive struct {
	Name    string   `yaml:"name" json:"name"`
	Sources []string `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// Options controls policy rendering.
type Options struct {
	// BaseSources precede the hash sources in script-src.
	BaseSources []string

	// DigestSuffix is appended after each digest in RenderDirective.
	DigestSuffix string

	// Directives is the complete policy used by RenderHeader. The
	// script-src entry's sources are replaced by BaseSources plus hashes.
	Directives []Directive
}

// DefaultBaseSources returns the sources printed before the hashes.
func DefaultBaseSources() []string {
	return []string{"'self'", "'wasm-unsafe-eval'"}
}

// DefaultDirectives returns the policy served by the application.
func DefaultDirectives() []Directive {
	return []Directive{
		{Name: "default-src", Sources: []string{"'self'"}},
		{Name: ScriptSrc},
		{Name: "style-src", Sources: []string{"'self'", "'unsafe-inline'"}},
		{Name: "img-src", Sources: []string{"'self'", "data:", "blob:"}},
		{Name: "media-src", Sources: []string{"'self'", "blob:"}},
		{Name: "font-src", Sources: []string{"'self'", "data:"}},
		{Name: "connect-src", Sources: []string{"'self'"}},
		{Name: "frame-ancestors", Sources: []string{"'none'"}},
	}
}

// DefaultOptions returns the rendering options matching the served policy.
func DefaultOptions() Options {
	return Options{
		BaseSources:  DefaultBaseSources(),
		DigestSuffix: DefaultDigestSuffix,
		Directives:   DefaultDirectives(),
	}
}

// RenderDirective renders the script-src directive as a multi-line block
// ready to paste into a string literal:
//
//	script-src 'self' 'wasm-unsafe-eval' \
//	  'sha256-<digest1>=' \
//	  'sha256-<digest2>=';
//
// Every line but the last ends with a backslash continuation; the last
// ends with a semicolon. digests must already be sorted.
func RenderDirective(algorithm model.Algorithm, digests []string, opts Options) string {
	head := strings.Join(append([]string{ScriptSrc}, opts.BaseSources...), " ")

	var sb strings.Builder
	if len(digests) == 0 {
		sb.WriteString(head)
		sb.WriteString(";\n")
		return sb.String()
	}

	sb.WriteString(head)
	sb.WriteString(" \\\n")
	for i, d := range digests {
		sb.WriteString("  '")
		sb.WriteString(algorithm.String())
		sb.WriteString("-")
		sb.WriteString(d)
		sb.WriteString(opts.DigestSuffix)
		if i < len(digests)-1 {
			sb.WriteString("' \\\n")
		} else {
			sb.WriteString("';\n")
		}
	}
	return sb.String()
}

// RenderHeader renders the full header value on one line, with the hash
// sources placed in script-src. Hash sources are written without the
// digest suffix. If Directives has no script-src entry one is appended.
func RenderHeader(algorithm model.Algorithm, digests []string, opts Options) string {
	directives := opts.Directives
	if len(directives) == 0 {
		directives = DefaultDirectives()
	}

	scriptSources := make([]string, 0, len(opts.BaseSources)+len(digests))
	scriptSources = append(scriptSources, opts.BaseSources...)
	for _, d := range digests {
		scriptSources = append(scriptSources, "'"+algorithm.String()+"-"+d+"'")
	}

	parts := make([]string, 0, len(directives)+1)
	hasScriptSrc := false
	for _, dir := range directives {
		sources := dir.Sources
		if dir.Name == ScriptSrc {
			hasScriptSrc = true
			sources = scriptSources
		}
		parts = append(parts, renderOne(dir.Name, sources))
	}
	if !hasScriptSrc {
		parts = append(parts, renderOne(ScriptSrc, scriptSources))
	}

	return strings.Join(parts, "; ") + ";"
}

func renderOne(name string, sources []string) string {
	if len(sources) == 0 {
		return name
	}
	return name + " " + strings.Join(sources, " ")
}
