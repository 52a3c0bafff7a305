// Package main provides the entry point for the profilereport CLI.
//
// profilereport turns the JSON description produced by a profiling run
// into an HTML report, and groups several reports into a dataset page.
//
// Usage:
//
//	profilereport render summary.json -o report.html
//	profilereport dataset census.yaml
//
// See --help for all available options.
package main

// main is the entry point for profilereport.
func main() {
	Execute()
}
