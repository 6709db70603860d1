// Command seoaudit runs an SEO audit from the terminal and prints a scored
// summary, optionally writing the full report as JSON or CSV.
package main

func main() {
	Execute()
}
