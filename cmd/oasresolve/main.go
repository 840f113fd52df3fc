package main

import (
	"fmt"
	"os"

	"github.com/erraggy/oasresolve"
	"github.com/erraggy/oasresolve/cmd/oasresolve/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasresolve v%s\n", oasresolve.Version())
		fmt.Println(oasresolve.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "resolve":
		if err := commands.HandleResolve(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "load":
		if err := commands.HandleLoad(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "initial":
		if err := commands.HandleInitial(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mappings":
		if err := commands.HandleMappings(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// commandNames lists every dispatchable command, used for typo suggestions.
var commandNames = []string{"resolve", "load", "initial", "mappings", "mcp", "version", "help"}

// suggestCommand returns the known command closest to input within edit
// distance 2, or "" when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best = name
			bestDist = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`oasresolve - OpenAPI Reference Resolution Tools

Usage:
  oasresolve <command> [options]

Commands:
  resolve     Resolve reference URIs to the locations they are mapped to
  load        Resolve, fetch, and parse a single document
  initial     Select the initial document of a multi-document API description
  mappings    Print the effective URI mapping configuration
  mcp         Run the MCP server on stdio
  version     Show version information
  help        Show this help message

Examples:
  oasresolve resolve -d "./schemas https://example.com/api/" https://example.com/api/pet
  oasresolve load -f "openapi.yaml https://example.com/api/openapi" https://example.com/api/openapi
  oasresolve initial -f openapi.yaml -d "./schemas https://example.com/api/schemas/"
  oasresolve mappings -p "https://cdn.example.com/specs/ https://example.com/api/"

Run 'oasresolve <command> --help' for more information on a command.`)
}
