// Package naming holds the conventions shared by the container, the route
// table builder and the dispatcher: bean names derived from type names, and
// URL path normalization.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BeanName lowercases the first character of a simple type name.
//
//	BeanName("DemoAction") // "demoAction"
func BeanName(simpleName string) string {
	r, size := utf8.DecodeRuneInString(simpleName)
	if size == 0 {
		return simpleName
	}
	lower := unicode.ToLower(r)
	if lower == r {
		return simpleName
	}
	return string(lower) + simpleName[size:]
}

// SimpleName strips the package part of a fully-qualified identifier.
//
//	SimpleName("github.com/km-arc/go-mvc/demo/action.DemoAction") // "DemoAction"
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '/'); i >= 0 {
		qualified = qualified[i+1:]
	}
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// PackageOf returns the package part of a fully-qualified identifier.
//
//	PackageOf("github.com/km-arc/go-mvc/demo/action.DemoAction") // "github.com/km-arc/go-mvc/demo/action"
func PackageOf(qualified string) string {
	slash := strings.LastIndexByte(qualified, '/')
	if i := strings.LastIndexByte(qualified, '.'); i > slash {
		return qualified[:i]
	}
	return ""
}

// NormalizePath collapses every run of consecutive '/' into one.
func NormalizePath(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// JoinRoute builds the normalized path of a handler from a controller's base
// route and the method's route suffix.
//
//	JoinRoute("/demo", "/query") // "/demo/query"
//	JoinRoute("", "query")       // "/query"
func JoinRoute(base, suffix string) string {
	return NormalizePath("/" + base + "/" + suffix)
}
