// Package service declares the contracts of the demo application.
package service

// DemoService greets by name.
type DemoService interface {
	Get(name string) string
}
